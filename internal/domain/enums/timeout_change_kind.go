package enums

type TimeoutChangeKind string

const (
	TimeoutChangeAdded    TimeoutChangeKind = "added"
	TimeoutChangeRemoved  TimeoutChangeKind = "removed"
	TimeoutChangeAdjusted TimeoutChangeKind = "adjusted"
)
