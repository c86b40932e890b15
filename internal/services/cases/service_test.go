package cases

import (
	"context"
	"errors"
	"testing"

	"github.com/sushiibot/modlog/internal/domain/enums"
	"github.com/sushiibot/modlog/internal/domain/model"
	"github.com/sushiibot/modlog/internal/platform"
)

type fakeRepo struct {
	nextID  int64
	drafts  []model.CaseDraft
	cases   map[int64]model.ModerationCase
	deleted []int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, cases: map[int64]model.ModerationCase{}}
}

func (r *fakeRepo) CreatePending(_ context.Context, draft model.CaseDraft) (int64, error) {
	r.drafts = append(r.drafts, draft)
	id := r.nextID
	r.nextID++
	return id, nil
}

func (r *fakeRepo) GetByID(_ context.Context, _ int64, caseID int64) (model.ModerationCase, error) {
	c, ok := r.cases[caseID]
	if !ok {
		return model.ModerationCase{}, errors.New("not found")
	}
	return c, nil
}

func (r *fakeRepo) NextCaseID(context.Context, int64) (int64, error) {
	return r.nextID, nil
}

func (r *fakeRepo) Delete(_ context.Context, _ int64, caseIDs []int64) ([]model.ModerationCase, error) {
	out := []model.ModerationCase{}
	for _, id := range caseIDs {
		if c, ok := r.cases[id]; ok {
			out = append(out, c)
			delete(r.cases, id)
			r.deleted = append(r.deleted, id)
		}
	}
	return out, nil
}

type fakeMessenger struct {
	deleted   []platform.MessageRef
	deleteErr error
}

func (m *fakeMessenger) SendDM(context.Context, int64, platform.Message) (platform.MessageRef, error) {
	return platform.MessageRef{}, errors.New("not used")
}

func (m *fakeMessenger) PostMessage(context.Context, int64, platform.Message) (int64, error) {
	return 0, errors.New("not used")
}

func (m *fakeMessenger) GetMessage(context.Context, int64, int64) (platform.Message, error) {
	return platform.Message{}, errors.New("not used")
}

func (m *fakeMessenger) EditMessage(context.Context, int64, int64, platform.Message) error {
	return errors.New("not used")
}

func (m *fakeMessenger) DeleteMessage(_ context.Context, channelID, messageID int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, platform.MessageRef{ChannelID: channelID, MessageID: messageID})
	return nil
}

func TestCreatePendingCaseSequence(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeMessenger{}, nil)
	ctx := context.Background()
	user := platform.User{ID: 777, Tag: "someone#0001"}

	ids := []int64{}
	for i := 0; i < 3; i++ {
		id, err := svc.CreatePendingCase(ctx, 1, user, enums.ActionBan, 555, "spam", nil)
		if err != nil {
			t.Fatalf("create pending case: %v", err)
		}
		ids = append(ids, id)
	}

	if ids[0]+1 != ids[1] || ids[1]+1 != ids[2] {
		t.Fatalf("case ids must be strictly increasing: %v", ids)
	}
	if len(repo.drafts) != 3 {
		t.Fatalf("expected three drafts, got %d", len(repo.drafts))
	}
	draft := repo.drafts[0]
	if draft.ExecutorID == nil || *draft.ExecutorID != 555 || draft.Reason != "spam" {
		t.Fatalf("unexpected draft: %+v", draft)
	}
	if draft.ActionTime.IsZero() {
		t.Fatalf("action time must be set")
	}
}

func TestCreatePendingCaseValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeMessenger{}, nil)
	ctx := context.Background()
	user := platform.User{ID: 777, Tag: "someone#0001"}

	if _, err := svc.CreatePendingCase(ctx, 0, user, enums.ActionBan, 555, "", nil); err == nil {
		t.Fatalf("zero community id must be rejected")
	}
	if _, err := svc.CreatePendingCase(ctx, 1, platform.User{}, enums.ActionBan, 555, "", nil); err == nil {
		t.Fatalf("missing target must be rejected")
	}
	if _, err := svc.CreatePendingCase(ctx, 1, user, enums.ActionType("explode"), 555, "", nil); err == nil {
		t.Fatalf("unknown action must be rejected")
	}
}

func TestDeleteCleansUpLogMessages(t *testing.T) {
	repo := newFakeRepo()
	channelID, messageID := int64(500), int64(9001)
	repo.cases[7] = model.ModerationCase{
		CommunityID:  1,
		CaseID:       7,
		LogChannelID: &channelID,
		LogMessageID: &messageID,
	}
	repo.cases[8] = model.ModerationCase{CommunityID: 1, CaseID: 8}
	messenger := &fakeMessenger{}
	svc := NewService(repo, messenger, nil)

	n, err := svc.Delete(context.Background(), 1, []int64{7, 8, 9})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected two deletions, got %d", n)
	}
	if len(messenger.deleted) != 1 || messenger.deleted[0].MessageID != 9001 {
		t.Fatalf("expected one log message cleanup, got %+v", messenger.deleted)
	}
}

func TestDeleteRangeResolvesLatest(t *testing.T) {
	repo := newFakeRepo()
	repo.nextID = 11
	for id := int64(8); id <= 10; id++ {
		repo.cases[id] = model.ModerationCase{CommunityID: 1, CaseID: id}
	}
	svc := NewService(repo, &fakeMessenger{}, nil)

	n, err := svc.DeleteRange(context.Background(), 1, "latest~2")
	if err != nil {
		t.Fatalf("delete range: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected two deletions, got %d", n)
	}
	if len(repo.deleted) != 2 || repo.deleted[0] != 9 || repo.deleted[1] != 10 {
		t.Fatalf("expected cases 9 and 10 deleted, got %v", repo.deleted)
	}
	if _, ok := repo.cases[8]; !ok {
		t.Fatalf("case 8 must survive latest~2")
	}
}

func TestDeleteRangeRejectsBadSpecifier(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeMessenger{}, nil)

	if _, err := svc.DeleteRange(context.Background(), 1, "abc"); err == nil {
		t.Fatalf("invalid specifier must be rejected")
	}
	if _, err := svc.DeleteRange(context.Background(), 1, "1-100"); err == nil {
		t.Fatalf("oversized range must be rejected")
	}
}

func TestDeleteMessageFailureIsBestEffort(t *testing.T) {
	repo := newFakeRepo()
	channelID, messageID := int64(500), int64(9001)
	repo.cases[7] = model.ModerationCase{
		CommunityID:  1,
		CaseID:       7,
		LogChannelID: &channelID,
		LogMessageID: &messageID,
	}
	messenger := &fakeMessenger{deleteErr: errors.New("missing permission")}
	svc := NewService(repo, messenger, nil)

	n, err := svc.Delete(context.Background(), 1, []int64{7})
	if err != nil {
		t.Fatalf("message cleanup failure must not fail the deletion: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one deletion, got %d", n)
	}
}
