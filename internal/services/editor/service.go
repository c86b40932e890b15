package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sushiibot/modlog/internal/domain/model"
	"github.com/sushiibot/modlog/internal/platform"
	"github.com/sushiibot/modlog/internal/ui"
)

var ErrRangeTooLarge = fmt.Errorf("specifier resolves to more than %d cases", MaxCasesPerEdit)
var ErrCaseNotFound = errors.New("no cases in the given range")
var ErrReasonRequired = errors.New("reason is required")

type Repo interface {
	NextCaseID(ctx context.Context, communityID int64) (int64, error)
	ListRange(ctx context.Context, communityID, fromID, toID int64) ([]model.ModerationCase, error)
	UpdateReason(ctx context.Context, communityID, caseID int64, reason string, executorID int64) error
}

// Service retroactively sets reasons on one case, an id range, or the
// latest N cases, propagating the edit to already-posted log messages.
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

// EditResult is the outcome for one case in a batch. Err is nil on full
// success; a store update that succeeded but whose message patch failed
// still reports the message error.
type EditResult struct {
	CaseID int64
	Err    error
}

// SetReason resolves the specifier and applies the reason to every case in
// it. Per-case failures are collected, not aborted on, so one broken case
// does not block the batch. Specifier problems are rejected synchronously
// before any mutation.
func (s *Service) SetReason(ctx context.Context, communityID int64, rawSpec, reason string, executorID int64) ([]EditResult, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("case repo is not configured")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	spec, err := ParseCaseSpecifier(rawSpec, SpecifierModeStrict)
	if err != nil {
		return nil, err
	}

	nextCaseID, err := s.repo.NextCaseID(ctx, communityID)
	if err != nil {
		return nil, fmt.Errorf("resolve next case id: %w", err)
	}

	fromID, toID, err := spec.Resolve(nextCaseID)
	if err != nil {
		return nil, err
	}
	if Count(fromID, toID) > MaxCasesPerEdit {
		return nil, ErrRangeTooLarge
	}

	found, err := s.repo.ListRange(ctx, communityID, fromID, toID)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	if len(found) == 0 {
		return nil, ErrCaseNotFound
	}

	// Sequential on purpose: attributable, ordered logging. Edits are
	// independent row/message updates, not a transaction.
	results := make([]EditResult, 0, len(found))
	for _, c := range found {
		results = append(results, EditResult{
			CaseID: c.CaseID,
			Err:    s.editCase(ctx, c, reason, executorID),
		})
	}

	return results, nil
}

func (s *Service) editCase(ctx context.Context, c model.ModerationCase, reason string, executorID int64) error {
	if err := s.repo.UpdateReason(ctx, c.CommunityID, c.CaseID, reason, executorID); err != nil {
		return fmt.Errorf("update reason: %w", err)
	}

	if !c.HasLogMessage() || s.messenger == nil {
		return nil
	}

	msg, err := s.messenger.GetMessage(ctx, *c.LogChannelID, *c.LogMessageID)
	if err != nil {
		s.logger.Warn("fetch log message for reason edit failed",
			zap.Int64("community_id", c.CommunityID),
			zap.Int64("case_id", c.CaseID),
			zap.Error(err))
		return fmt.Errorf("fetch log message: %w", err)
	}

	patched := ui.PatchReason(msg, reason)
	if err := s.messenger.EditMessage(ctx, *c.LogChannelID, *c.LogMessageID, patched); err != nil {
		s.logger.Warn("patch log message reason failed",
			zap.Int64("community_id", c.CommunityID),
			zap.Int64("case_id", c.CaseID),
			zap.Error(err))
		return fmt.Errorf("edit log message: %w", err)
	}

	return nil
}
