package model

import (
	"time"

	"github.com/sushiibot/modlog/internal/domain/enums"
)

// ModerationCase is one persisted moderation action. Identity is
// (CommunityID, CaseID); case ids are per-community, strictly increasing
// and never reused.
type ModerationCase struct {
	CommunityID int64
	CaseID      int64
	Action      enums.ActionType
	ActionTime  time.Time

	// Pending is true from optimistic creation by a command handler until
	// the matching audit-log entry finalizes the case. It flips to false
	// at most once and is never reversed.
	Pending bool

	UserID  int64
	UserTag string

	ExecutorID  *int64
	Reason      string
	Attachments []string

	LogChannelID *int64
	LogMessageID *int64

	DMChannelID *int64
	DMMessageID *int64
	DMError     string
}

func (c ModerationCase) HasLogMessage() bool {
	return c.LogChannelID != nil && c.LogMessageID != nil
}

func (c ModerationCase) DMSucceeded() bool {
	return c.DMChannelID != nil && c.DMMessageID != nil
}

func (c ModerationCase) DMAttempted() bool {
	return c.DMSucceeded() || c.DMError != ""
}

// CaseDraft carries the fields needed to create a new case row. The store
// allocates the case id.
type CaseDraft struct {
	CommunityID int64
	Action      enums.ActionType
	ActionTime  time.Time
	UserID      int64
	UserTag     string
	ExecutorID  *int64
	Reason      string
	Attachments []string
}
