package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sushiibot/modlog/internal/domain/enums"
	"github.com/sushiibot/modlog/internal/domain/model"
	"github.com/sushiibot/modlog/internal/domain/rules"
	"github.com/sushiibot/modlog/internal/platform"
)

const (
	fieldTarget      = "Target"
	fieldExecutor    = "Executor"
	fieldReason      = "Reason"
	fieldAttachments = "Attachments"

	noReasonPlaceholder = "No reason set"
)

const (
	colorRed    = 0xED4245
	colorGreen  = 0x57F287
	colorYellow = 0xFEE75C
	colorGrey   = 0x95A5A6
)

func actionLabel(action enums.ActionType) string {
	switch action {
	case enums.ActionBan:
		return "Ban"
	case enums.ActionUnban:
		return "Unban"
	case enums.ActionKick:
		return "Kick"
	case enums.ActionTimeout:
		return "Timeout"
	case enums.ActionTimeoutRemove:
		return "Timeout removed"
	case enums.ActionTimeoutAdjust:
		return "Timeout adjusted"
	case enums.ActionWarn:
		return "Warning"
	case enums.ActionNote:
		return "Note"
	default:
		return string(action)
	}
}

func actionColor(action enums.ActionType) int {
	switch action {
	case enums.ActionBan, enums.ActionKick:
		return colorRed
	case enums.ActionUnban, enums.ActionTimeoutRemove:
		return colorGreen
	case enums.ActionTimeout, enums.ActionTimeoutAdjust, enums.ActionWarn:
		return colorYellow
	default:
		return colorGrey
	}
}

// ActionSupportsReason reports whether a set-reason button makes sense for
// the action. A note carries its text from creation.
func ActionSupportsReason(action enums.ActionType) bool {
	return action != enums.ActionNote
}

// RenderCase builds the log-channel embed and action row from a case. It is
// stateless and derives everything from stored fields.
func RenderCase(c model.ModerationCase) (platform.Embed, []platform.ActionRow) {
	executor := "Unknown"
	if c.ExecutorID != nil {
		executor = strconv.FormatInt(*c.ExecutorID, 10)
	}

	reason := c.Reason
	if reason == "" {
		reason = noReasonPlaceholder
	}

	fields := []platform.EmbedField{
		{Name: fieldTarget, Value: fmt.Sprintf("%s (%d)", c.UserTag, c.UserID), Inline: true},
		{Name: fieldExecutor, Value: executor, Inline: true},
		{Name: fieldReason, Value: reason},
	}
	if len(c.Attachments) > 0 {
		fields = append(fields, platform.EmbedField{
			Name:  fieldAttachments,
			Value: strings.Join(c.Attachments, "\n"),
		})
	}

	embed := platform.Embed{
		Title:     fmt.Sprintf("Case #%d — %s", c.CaseID, actionLabel(c.Action)),
		Color:     actionColor(c.Action),
		Fields:    fields,
		Footer:    fmt.Sprintf("User ID: %d", c.UserID),
		Timestamp: c.ActionTime,
	}

	buttons := make([]platform.Button, 0, 2)
	if c.Reason == "" && ActionSupportsReason(c.Action) {
		buttons = append(buttons, platform.Button{
			CustomID: SetReasonCustomID(c.CaseID),
			Label:    "Set reason",
			Style:    platform.ButtonPrimary,
		})
	}
	if c.DMSucceeded() {
		buttons = append(buttons, platform.Button{
			CustomID: DeleteDMCustomID(c.CaseID, *c.DMChannelID, *c.DMMessageID),
			Label:    "Delete DM",
			Style:    platform.ButtonDanger,
		})
	} else if c.DMError != "" {
		buttons = append(buttons, platform.Button{
			CustomID: DMErrorCustomID(c.CaseID),
			Label:    "DM failed",
			Style:    platform.ButtonSecondary,
			Disabled: true,
		})
	}

	if len(buttons) == 0 {
		return embed, []platform.ActionRow{}
	}
	return embed, []platform.ActionRow{{Buttons: buttons}}
}

// RenderTimeoutDM builds the private notification sent to the target of a
// native timeout add or remove.
func RenderTimeoutDM(c model.ModerationCase, tc rules.TimeoutChange) platform.Message {
	embed := platform.Embed{
		Color:     actionColor(c.Action),
		Timestamp: c.ActionTime,
	}

	if tc.Kind == enums.TimeoutChangeRemoved {
		embed.Title = "Your timeout was removed"
	} else {
		embed.Title = "You have been timed out"
		if tc.New != nil {
			embed.Fields = append(embed.Fields, platform.EmbedField{
				Name:  "Expires",
				Value: tc.New.UTC().Format(time.RFC1123),
			})
		}
	}

	if c.Reason != "" {
		embed.Fields = append(embed.Fields, platform.EmbedField{Name: fieldReason, Value: c.Reason})
	}

	return platform.Message{Embeds: []platform.Embed{embed}}
}

// PatchReason rewrites only the Reason field of a posted case message and
// drops the set-reason button, leaving every other field, the footer and
// the timestamp untouched.
func PatchReason(msg platform.Message, reason string) platform.Message {
	for ei := range msg.Embeds {
		for fi := range msg.Embeds[ei].Fields {
			if msg.Embeds[ei].Fields[fi].Name == fieldReason {
				msg.Embeds[ei].Fields[fi].Value = reason
			}
		}
	}

	components := make([]platform.ActionRow, 0, len(msg.Components))
	for _, row := range msg.Components {
		buttons := make([]platform.Button, 0, len(row.Buttons))
		for _, b := range row.Buttons {
			id, err := ParseCustomID(b.CustomID)
			if err == nil && id.Kind == CustomIDSetReason {
				continue
			}
			buttons = append(buttons, b)
		}
		if len(buttons) > 0 {
			components = append(components, platform.ActionRow{Buttons: buttons})
		}
	}
	msg.Components = components

	return msg
}
