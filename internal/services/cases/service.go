package cases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sushiibot/modlog/internal/domain/enums"
	"github.com/sushiibot/modlog/internal/domain/model"
	"github.com/sushiibot/modlog/internal/platform"
	"github.com/sushiibot/modlog/internal/services/editor"
)

type Repo interface {
	CreatePending(ctx context.Context, draft model.CaseDraft) (int64, error)
	GetByID(ctx context.Context, communityID, caseID int64) (model.ModerationCase, error)
	NextCaseID(ctx context.Context, communityID int64) (int64, error)
	Delete(ctx context.Context, communityID int64, caseIDs []int64) ([]model.ModerationCase, error)
}

type Service struct {
	repo      Repo
	messenger platform.Messenger
	logger    *zap.Logger
}

func NewService(repo Repo, messenger platform.Messenger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, messenger: messenger, logger: logger}
}

// CreatePendingCase is the contract for command handlers: call it before
// the platform mutation, abort the command on failure. The returned case
// id is finalized later by the audit-log path.
func (s *Service) CreatePendingCase(
	ctx context.Context,
	communityID int64,
	user platform.User,
	action enums.ActionType,
	executorID int64,
	reason string,
	attachments []string,
) (int64, error) {
	if s.repo == nil {
		return 0, fmt.Errorf("case repo is not configured")
	}
	if communityID <= 0 {
		return 0, fmt.Errorf("invalid community id")
	}
	if user.ID <= 0 {
		return 0, fmt.Errorf("invalid target user")
	}
	if !action.Valid() {
		return 0, fmt.Errorf("invalid action type %q", action)
	}

	var executor *int64
	if executorID > 0 {
		executor = &executorID
	}

	caseID, err := s.repo.CreatePending(ctx, model.CaseDraft{
		CommunityID: communityID,
		Action:      action,
		ActionTime:  time.Now().UTC(),
		UserID:      user.ID,
		UserTag:     strings.TrimSpace(user.Tag),
		ExecutorID:  executor,
		Reason:      strings.TrimSpace(reason),
		Attachments: attachments,
	})
	if err != nil {
		return 0, fmt.Errorf("create pending case: %w", err)
	}

	return caseID, nil
}

func (s *Service) Get(ctx context.Context, communityID, caseID int64) (model.ModerationCase, error) {
	if s.repo == nil {
		return model.ModerationCase{}, fmt.Errorf("case repo is not configured")
	}
	return s.repo.GetByID(ctx, communityID, caseID)
}

// Delete removes the given cases and best-effort deletes their posted log
// messages. A failed message deletion is logged and does not undo the row
// deletion. Returns the number of deleted cases.
func (s *Service) Delete(ctx context.Context, communityID int64, caseIDs []int64) (int, error) {
	if s.repo == nil {
		return 0, fmt.Errorf("case repo is not configured")
	}
	if communityID <= 0 {
		return 0, fmt.Errorf("invalid community id")
	}

	deleted, err := s.repo.Delete(ctx, communityID, caseIDs)
	if err != nil {
		return 0, fmt.Errorf("delete cases: %w", err)
	}

	if s.messenger != nil {
		for _, c := range deleted {
			if !c.HasLogMessage() {
				continue
			}
			if err := s.messenger.DeleteMessage(ctx, *c.LogChannelID, *c.LogMessageID); err != nil {
				s.logger.Warn("log message cleanup failed",
					zap.Int64("community_id", communityID),
					zap.Int64("case_id", c.CaseID),
					zap.Error(err))
			}
		}
	}

	return len(deleted), nil
}

// DeleteRange deletes the cases a specifier resolves to ("57", "5-10",
// "latest~3"), bounded like reason edits. Counter state is untouched, so
// deleted ids are never handed out again.
func (s *Service) DeleteRange(ctx context.Context, communityID int64, rawSpec string) (int, error) {
	if s.repo == nil {
		return 0, fmt.Errorf("case repo is not configured")
	}

	spec, err := editor.ParseCaseSpecifier(rawSpec, editor.SpecifierModeStrict)
	if err != nil {
		return 0, err
	}

	nextCaseID, err := s.repo.NextCaseID(ctx, communityID)
	if err != nil {
		return 0, fmt.Errorf("resolve next case id: %w", err)
	}

	fromID, toID, err := spec.Resolve(nextCaseID)
	if err != nil {
		return 0, err
	}
	if editor.Count(fromID, toID) > editor.MaxCasesPerEdit {
		return 0, editor.ErrRangeTooLarge
	}

	ids := make([]int64, 0, toID-fromID+1)
	for id := fromID; id <= toID; id++ {
		ids = append(ids, id)
	}

	return s.Delete(ctx, communityID, ids)
}
