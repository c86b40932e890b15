package rules

import (
	"time"

	"github.com/sushiibot/modlog/internal/domain/enums"
)

// TimeoutChange classifies a before/after pair of "communication disabled
// until" timestamps from a member-update audit-log entry.
type TimeoutChange struct {
	Kind enums.TimeoutChangeKind
	Old  *time.Time
	New  *time.Time

	// Duration is the effective timeout length: new−now for Added,
	// new−old for Adjusted, zero for Removed.
	Duration time.Duration
}

func (tc TimeoutChange) Action() enums.ActionType {
	switch tc.Kind {
	case enums.TimeoutChangeAdded:
		return enums.ActionTimeout
	case enums.TimeoutChangeRemoved:
		return enums.ActionTimeoutRemove
	default:
		return enums.ActionTimeoutAdjust
	}
}

// ClassifyTimeoutChange derives a TimeoutChange from the raw old/new
// timestamps. The platform keeps a stale timeout timestamp on the member
// object after expiry, so an old value at or before now is treated as
// absent; otherwise an unrelated later action would classify as adjusting
// an already-expired timeout. Returns false when the pair describes no
// timeout change at all.
func ClassifyTimeoutChange(oldVal, newVal *time.Time, now time.Time) (TimeoutChange, bool) {
	if oldVal != nil && !oldVal.After(now) {
		oldVal = nil
	}

	switch {
	case oldVal == nil && newVal == nil:
		return TimeoutChange{}, false
	case oldVal == nil:
		return TimeoutChange{
			Kind:     enums.TimeoutChangeAdded,
			New:      newVal,
			Duration: newVal.Sub(now),
		}, true
	case newVal == nil:
		return TimeoutChange{
			Kind: enums.TimeoutChangeRemoved,
			Old:  oldVal,
		}, true
	case oldVal.Equal(*newVal):
		return TimeoutChange{}, false
	default:
		return TimeoutChange{
			Kind:     enums.TimeoutChangeAdjusted,
			Old:      oldVal,
			New:      newVal,
			Duration: newVal.Sub(*oldVal),
		}, true
	}
}
