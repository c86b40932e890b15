package ui

import "testing"

func TestCustomIDRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		id   CustomID
	}{
		{name: "set reason", id: CustomID{Kind: CustomIDSetReason, CaseID: 57}},
		{name: "dm error", id: CustomID{Kind: CustomIDDMError, CaseID: 3}},
		{name: "delete dm", id: CustomID{Kind: CustomIDDeleteDM, CaseID: 99, DMChannelID: 1234, DMMessageID: 5678}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := tt.id.String()
			parsed, err := ParseCustomID(raw)
			if err != nil {
				t.Fatalf("parse %q: %v", raw, err)
			}
			if parsed != tt.id {
				t.Fatalf("round trip mismatch: got %+v want %+v", parsed, tt.id)
			}
		})
	}
}

func TestParseCustomIDRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"other:reason:1",
		"modcase:reason",
		"modcase:reason:abc",
		"modcase:reason:0",
		"modcase:reason:1:2",
		"modcase:dmdel:1",
		"modcase:dmdel:1:2",
		"modcase:dmdel:1:x:3",
		"modcase:unknown:1",
	}
	for _, raw := range bad {
		if _, err := ParseCustomID(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
