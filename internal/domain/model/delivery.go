package model

// DMResult is the write-once outcome of a single DM attempt. Either the
// channel/message pair is set (success) or Err is set (failure).
type DMResult struct {
	ChannelID int64
	MessageID int64
	Err       string
}

// CaseDelivery accumulates every mutation produced while handling one
// audit-log entry. The store applies it in a single terminal write so a
// failed side effect never leaves a case half-mutated.
type CaseDelivery struct {
	// ExecutorID and Reason are adopted only where the case does not
	// already carry a value; whichever side supplied them first wins.
	ExecutorID *int64
	Reason     string

	LogChannelID *int64
	LogMessageID *int64

	DM *DMResult
}
