package ui

import (
	"testing"
	"time"

	"github.com/sushiibot/modlog/internal/domain/enums"
	"github.com/sushiibot/modlog/internal/domain/model"
	"github.com/sushiibot/modlog/internal/platform"
)

func testCase() model.ModerationCase {
	executor := int64(555)
	return model.ModerationCase{
		CommunityID: 1,
		CaseID:      42,
		Action:      enums.ActionBan,
		ActionTime:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		UserID:      777,
		UserTag:     "someone#0001",
		ExecutorID:  &executor,
	}
}

func findField(embed platform.Embed, name string) (platform.EmbedField, bool) {
	for _, f := range embed.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return platform.EmbedField{}, false
}

func TestRenderCaseWithoutReasonShowsButton(t *testing.T) {
	embed, rows := RenderCase(testCase())

	reason, ok := findField(embed, "Reason")
	if !ok {
		t.Fatalf("embed has no reason field")
	}
	if reason.Value != "No reason set" {
		t.Fatalf("unexpected reason placeholder: %q", reason.Value)
	}

	if len(rows) != 1 || len(rows[0].Buttons) != 1 {
		t.Fatalf("expected one set-reason button, got %+v", rows)
	}
	id, err := ParseCustomID(rows[0].Buttons[0].CustomID)
	if err != nil || id.Kind != CustomIDSetReason || id.CaseID != 42 {
		t.Fatalf("unexpected button id %q: %+v %v", rows[0].Buttons[0].CustomID, id, err)
	}
}

func TestRenderCaseWithReasonOmitsButton(t *testing.T) {
	c := testCase()
	c.Reason = "spamming invites"

	embed, rows := RenderCase(c)

	reason, _ := findField(embed, "Reason")
	if reason.Value != "spamming invites" {
		t.Fatalf("unexpected reason value: %q", reason.Value)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no buttons, got %+v", rows)
	}
}

func TestRenderCaseNoteNeverGetsReasonButton(t *testing.T) {
	c := testCase()
	c.Action = enums.ActionNote

	_, rows := RenderCase(c)
	if len(rows) != 0 {
		t.Fatalf("note should not carry a set-reason button: %+v", rows)
	}
}

func TestRenderCaseDMButtons(t *testing.T) {
	c := testCase()
	c.Reason = "raiding"
	dmChannel, dmMessage := int64(10), int64(20)
	c.DMChannelID = &dmChannel
	c.DMMessageID = &dmMessage

	_, rows := RenderCase(c)
	if len(rows) != 1 || len(rows[0].Buttons) != 1 {
		t.Fatalf("expected delete-dm button, got %+v", rows)
	}
	id, err := ParseCustomID(rows[0].Buttons[0].CustomID)
	if err != nil {
		t.Fatalf("parse dm button id: %v", err)
	}
	if id.Kind != CustomIDDeleteDM || id.DMChannelID != 10 || id.DMMessageID != 20 {
		t.Fatalf("unexpected dm button id: %+v", id)
	}

	c.DMChannelID = nil
	c.DMMessageID = nil
	c.DMError = "cannot send messages to this user"
	_, rows = RenderCase(c)
	if len(rows) != 1 || len(rows[0].Buttons) != 1 || !rows[0].Buttons[0].Disabled {
		t.Fatalf("expected disabled dm-failed button, got %+v", rows)
	}
}

func TestPatchReasonOnlyTouchesReasonField(t *testing.T) {
	embed, rows := RenderCase(testCase())
	msg := platform.Message{Embeds: []platform.Embed{embed}, Components: rows}

	patched := PatchReason(msg, "ban evasion")

	got, _ := findField(patched.Embeds[0], "Reason")
	if got.Value != "ban evasion" {
		t.Fatalf("reason not patched: %q", got.Value)
	}

	target, _ := findField(patched.Embeds[0], "Target")
	if target.Value != "someone#0001 (777)" {
		t.Fatalf("target field changed: %q", target.Value)
	}
	if patched.Embeds[0].Footer != embed.Footer {
		t.Fatalf("footer changed: %q", patched.Embeds[0].Footer)
	}
	if !patched.Embeds[0].Timestamp.Equal(embed.Timestamp) {
		t.Fatalf("timestamp changed")
	}

	if len(patched.Components) != 0 {
		t.Fatalf("set-reason button should be removed, got %+v", patched.Components)
	}
}

func TestPatchReasonKeepsOtherButtons(t *testing.T) {
	c := testCase()
	dmChannel, dmMessage := int64(10), int64(20)
	c.DMChannelID = &dmChannel
	c.DMMessageID = &dmMessage

	embed, rows := RenderCase(c)
	if len(rows) != 1 || len(rows[0].Buttons) != 2 {
		t.Fatalf("expected set-reason and delete-dm buttons, got %+v", rows)
	}

	patched := PatchReason(platform.Message{Embeds: []platform.Embed{embed}, Components: rows}, "spam")
	if len(patched.Components) != 1 || len(patched.Components[0].Buttons) != 1 {
		t.Fatalf("expected only delete-dm button to survive, got %+v", patched.Components)
	}
	id, err := ParseCustomID(patched.Components[0].Buttons[0].CustomID)
	if err != nil || id.Kind != CustomIDDeleteDM {
		t.Fatalf("surviving button is not delete-dm: %+v %v", id, err)
	}
}
