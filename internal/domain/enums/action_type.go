package enums

type ActionType string

const (
	ActionBan           ActionType = "ban"
	ActionUnban         ActionType = "unban"
	ActionKick          ActionType = "kick"
	ActionTimeout       ActionType = "timeout"
	ActionTimeoutRemove ActionType = "timeout_remove"
	ActionTimeoutAdjust ActionType = "timeout_adjust"
	ActionWarn          ActionType = "warn"
	ActionNote          ActionType = "note"
)

func (a ActionType) Valid() bool {
	switch a {
	case ActionBan, ActionUnban, ActionKick, ActionTimeout, ActionTimeoutRemove, ActionTimeoutAdjust, ActionWarn, ActionNote:
		return true
	default:
		return false
	}
}
