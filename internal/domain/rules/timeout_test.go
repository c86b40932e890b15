package rules

import (
	"testing"
	"time"

	"github.com/sushiibot/modlog/internal/domain/enums"
)

func TestClassifyTimeoutChange(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	future1 := now.Add(10 * time.Minute)
	future2 := now.Add(25 * time.Minute)
	past := now.Add(-5 * time.Minute)

	tests := []struct {
		name         string
		old, new     *time.Time
		wantOK       bool
		wantKind     enums.TimeoutChangeKind
		wantDuration time.Duration
	}{
		{
			name: "both nil is not a timeout change",
			old:  nil, new: nil,
			wantOK: false,
		},
		{
			name: "nil to future is added",
			old:  nil, new: &future1,
			wantOK:       true,
			wantKind:     enums.TimeoutChangeAdded,
			wantDuration: 10 * time.Minute,
		},
		{
			name: "future to nil is removed",
			old:  &future1, new: nil,
			wantOK:   true,
			wantKind: enums.TimeoutChangeRemoved,
		},
		{
			name: "future to later future is adjusted",
			old:  &future1, new: &future2,
			wantOK:       true,
			wantKind:     enums.TimeoutChangeAdjusted,
			wantDuration: 15 * time.Minute,
		},
		{
			name: "stale past old with nil new is a no-op",
			old:  &past, new: nil,
			wantOK: false,
		},
		{
			name: "stale past old with future new is added, not adjusted",
			old:  &past, new: &future1,
			wantOK:       true,
			wantKind:     enums.TimeoutChangeAdded,
			wantDuration: 10 * time.Minute,
		},
		{
			name: "old exactly now is treated as absent",
			old:  &now, new: &future1,
			wantOK:       true,
			wantKind:     enums.TimeoutChangeAdded,
			wantDuration: 10 * time.Minute,
		},
		{
			name: "unchanged future timestamp is a no-op",
			old:  &future1, new: &future1,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, ok := ClassifyTimeoutChange(tt.old, tt.new, now)
			if ok != tt.wantOK {
				t.Fatalf("unexpected ok: got %v want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if tc.Kind != tt.wantKind {
				t.Fatalf("unexpected kind: got %s want %s", tc.Kind, tt.wantKind)
			}
			if tc.Duration != tt.wantDuration {
				t.Fatalf("unexpected duration: got %s want %s", tc.Duration, tt.wantDuration)
			}
		})
	}
}

func TestTimeoutChangeAction(t *testing.T) {
	tests := []struct {
		kind enums.TimeoutChangeKind
		want enums.ActionType
	}{
		{kind: enums.TimeoutChangeAdded, want: enums.ActionTimeout},
		{kind: enums.TimeoutChangeRemoved, want: enums.ActionTimeoutRemove},
		{kind: enums.TimeoutChangeAdjusted, want: enums.ActionTimeoutAdjust},
	}
	for _, tt := range tests {
		if got := (TimeoutChange{Kind: tt.kind}).Action(); got != tt.want {
			t.Fatalf("unexpected action for %s: got %s want %s", tt.kind, got, tt.want)
		}
	}
}
