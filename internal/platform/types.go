package platform

import (
	"strings"
	"time"
)

type User struct {
	ID  int64
	Tag string
}

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
	Footer      string
	Timestamp   time.Time
}

type ButtonStyle int

const (
	ButtonPrimary ButtonStyle = iota + 1
	ButtonSecondary
	ButtonSuccess
	ButtonDanger
)

type Button struct {
	CustomID string
	Label    string
	Style    ButtonStyle
	Disabled bool
}

type ActionRow struct {
	Buttons []Button
}

type Message struct {
	Content    string
	Embeds     []Embed
	Components []ActionRow
}

type MessageRef struct {
	ChannelID int64
	MessageID int64
}

type AuditLogKind string

const (
	AuditMemberBanAdd    AuditLogKind = "member_ban_add"
	AuditMemberBanRemove AuditLogKind = "member_ban_remove"
	AuditMemberKick      AuditLogKind = "member_kick"
	AuditMemberUpdate    AuditLogKind = "member_update"
)

// ChangeKeyTimedOutUntil is the member-update change key carrying the
// "communication disabled until" timestamp. It is the only change key
// this system interprets.
const ChangeKeyTimedOutUntil = "communication_disabled_until"

type AuditLogChange struct {
	Key      string
	OldValue string
	NewValue string
}

type AuditLogEntry struct {
	Kind       AuditLogKind
	TargetID   int64
	TargetType string
	TargetTag  string
	ExecutorID int64
	Reason     string
	Changes    []AuditLogChange
}

type BanEvent struct {
	CommunityID int64
	User        User
	Reason      string
}

type ComponentInteraction struct {
	CommunityID int64
	ChannelID   int64
	MessageID   int64
	UserID      int64
	CustomID    string
}

// ParseChangeTime parses an audit-log change value as a timestamp. An empty
// or "null" value means the attribute was absent on that side of the diff.
func ParseChangeTime(raw string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "null") {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return nil, err
	}
	ts = ts.UTC()
	return &ts, nil
}
