package model

import "time"

type CommunityConfig struct {
	CommunityID int64 `json:"community_id"`
	// LogChannelID is the moderation log channel. Zero means moderation
	// logging is disabled for the community.
	LogChannelID int64     `json:"log_channel_id"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c CommunityConfig) LoggingEnabled() bool {
	return c.LogChannelID != 0
}
