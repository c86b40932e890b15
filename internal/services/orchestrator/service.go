package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sushiibot/modlog/internal/domain/enums"
	"github.com/sushiibot/modlog/internal/domain/model"
	"github.com/sushiibot/modlog/internal/domain/rules"
	"github.com/sushiibot/modlog/internal/platform"
	"github.com/sushiibot/modlog/internal/ui"
)

type CaseRepo interface {
	MatchPending(ctx context.Context, communityID, userID int64, action enums.ActionType, window time.Duration) (model.ModerationCase, bool, error)
	InsertFinalized(ctx context.Context, draft model.CaseDraft) (model.ModerationCase, error)
	SaveDelivery(ctx context.Context, communityID, caseID int64, delivery model.CaseDelivery) error
	GetByID(ctx context.Context, communityID, caseID int64) (model.ModerationCase, error)
}

type ConfigSource interface {
	Get(ctx context.Context, communityID int64) (model.CommunityConfig, bool, error)
}

// Service reconciles inbound audit-log entries with pending cases created
// by the command path, synthesizing new cases for native platform actions.
// Entries for different users/communities may be handled concurrently; all
// racing mutations are serialized inside the store.
type Service struct {
	repo      CaseRepo
	configs   ConfigSource
	messenger platform.Messenger
	window    time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(repo CaseRepo, configs ConfigSource, messenger platform.Messenger, window time.Duration, logger *zap.Logger) *Service {
	if window <= 0 {
		window = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repo,
		configs:   configs,
		messenger: messenger,
		window:    window,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// entry is one classified moderation event, whatever path it arrived on.
type entry struct {
	communityID int64
	action      enums.ActionType
	target      platform.User
	executorID  int64
	reason      string
	timeout     *rules.TimeoutChange
}

// HandleAuditLogEntry runs the per-entry state machine. Unclassifiable
// entries are dropped silently; a returned error means the entry was
// dropped without a persisted case.
func (s *Service) HandleAuditLogEntry(ctx context.Context, communityID int64, auditEntry platform.AuditLogEntry) error {
	e, ok, err := s.classify(communityID, auditEntry)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return s.process(ctx, e)
}

func (s *Service) HandleBanAdd(ctx context.Context, event platform.BanEvent) error {
	return s.process(ctx, entry{
		communityID: event.CommunityID,
		action:      enums.ActionBan,
		target:      event.User,
		reason:      event.Reason,
	})
}

func (s *Service) HandleBanRemove(ctx context.Context, event platform.BanEvent) error {
	return s.process(ctx, entry{
		communityID: event.CommunityID,
		action:      enums.ActionUnban,
		target:      event.User,
		reason:      event.Reason,
	})
}

// HandleComponent routes button interactions whose custom id embeds the
// routing state. The case row is still re-fetched for current state before
// acting.
func (s *Service) HandleComponent(ctx context.Context, interaction platform.ComponentInteraction) error {
	id, err := ui.ParseCustomID(interaction.CustomID)
	if err != nil {
		return nil
	}

	switch id.Kind {
	case ui.CustomIDDeleteDM:
		c, err := s.repo.GetByID(ctx, interaction.CommunityID, id.CaseID)
		if err != nil {
			return fmt.Errorf("load case for dm deletion: %w", err)
		}
		if !c.DMSucceeded() || s.messenger == nil {
			return nil
		}
		if err := s.messenger.DeleteMessage(ctx, id.DMChannelID, id.DMMessageID); err != nil {
			s.logger.Warn("dm deletion failed",
				zap.Int64("community_id", interaction.CommunityID),
				zap.Int64("case_id", id.CaseID),
				zap.Error(err))
		}
		return nil
	default:
		// Set-reason opens an input flow owned by the command layer.
		return nil
	}
}

func (s *Service) classify(communityID int64, auditEntry platform.AuditLogEntry) (entry, bool, error) {
	e := entry{
		communityID: communityID,
		target:      platform.User{ID: auditEntry.TargetID, Tag: auditEntry.TargetTag},
		executorID:  auditEntry.ExecutorID,
		reason:      strings.TrimSpace(auditEntry.Reason),
	}

	switch auditEntry.Kind {
	case platform.AuditMemberBanAdd:
		e.action = enums.ActionBan
	case platform.AuditMemberBanRemove:
		e.action = enums.ActionUnban
	case platform.AuditMemberKick:
		e.action = enums.ActionKick
	case platform.AuditMemberUpdate:
		tc, ok, err := classifyMemberUpdate(auditEntry.Changes, s.now())
		if err != nil {
			return entry{}, false, err
		}
		if !ok {
			return entry{}, false, nil
		}
		e.action = tc.Action()
		e.timeout = &tc
	default:
		return entry{}, false, nil
	}

	return e, true, nil
}

func classifyMemberUpdate(changes []platform.AuditLogChange, now time.Time) (rules.TimeoutChange, bool, error) {
	for _, change := range changes {
		if change.Key != platform.ChangeKeyTimedOutUntil {
			continue
		}

		oldVal, err := platform.ParseChangeTime(change.OldValue)
		if err != nil {
			return rules.TimeoutChange{}, false, fmt.Errorf("parse timeout old value: %w", err)
		}
		newVal, err := platform.ParseChangeTime(change.NewValue)
		if err != nil {
			return rules.TimeoutChange{}, false, fmt.Errorf("parse timeout new value: %w", err)
		}

		tc, ok := rules.ClassifyTimeoutChange(oldVal, newVal, now)
		return tc, ok, nil
	}
	return rules.TimeoutChange{}, false, nil
}

func (s *Service) process(ctx context.Context, e entry) error {
	log := s.logger.With(
		zap.String("entry_id", uuid.NewString()),
		zap.Int64("community_id", e.communityID),
		zap.Int64("user_id", e.target.ID),
		zap.String("action", string(e.action)),
	)

	cfg, found, err := s.configs.Get(ctx, e.communityID)
	if err != nil {
		return fmt.Errorf("load community config: %w", err)
	}
	if !found || !cfg.LoggingEnabled() {
		// Native actions are tracked only when moderation logging is on.
		log.Debug("moderation logging disabled, entry skipped")
		return nil
	}

	c, matched, err := s.repo.MatchPending(ctx, e.communityID, e.target.ID, e.action, s.window)
	if err != nil {
		return fmt.Errorf("match pending case: %w", err)
	}

	delivery := model.CaseDelivery{}
	if matched {
		// The command path created this case; adopt whatever detail it
		// did not supply.
		if c.ExecutorID == nil && e.executorID > 0 {
			executor := e.executorID
			delivery.ExecutorID = &executor
			c.ExecutorID = &executor
		}
		if c.Reason == "" && e.reason != "" {
			delivery.Reason = e.reason
			c.Reason = e.reason
		}
	} else {
		var executor *int64
		if e.executorID > 0 {
			id := e.executorID
			executor = &id
		}
		c, err = s.repo.InsertFinalized(ctx, model.CaseDraft{
			CommunityID: e.communityID,
			Action:      e.action,
			ActionTime:  s.now(),
			UserID:      e.target.ID,
			UserTag:     e.target.Tag,
			ExecutorID:  executor,
			Reason:      e.reason,
		})
		if err != nil {
			return fmt.Errorf("synthesize case: %w", err)
		}
	}

	if s.messenger == nil {
		// The case row is the source of truth either way; with no
		// messenger wired, delivery is skipped rather than failed.
		log.Warn("messenger is not configured, delivery skipped", zap.Int64("case_id", c.CaseID))
	} else {
		// Private before public: the target is DMed before the case is
		// posted to the log channel, for every action type.
		if s.shouldDM(matched, e) {
			ref, dmErr := s.messenger.SendDM(ctx, c.UserID, ui.RenderTimeoutDM(c, *e.timeout))
			if dmErr != nil {
				delivery.DM = &model.DMResult{Err: dmErr.Error()}
				c.DMError = dmErr.Error()
				log.Warn("target dm failed", zap.Int64("case_id", c.CaseID), zap.Error(dmErr))
			} else {
				delivery.DM = &model.DMResult{ChannelID: ref.ChannelID, MessageID: ref.MessageID}
				c.DMChannelID = &ref.ChannelID
				c.DMMessageID = &ref.MessageID
			}
		}

		embed, components := ui.RenderCase(c)
		messageID, postErr := s.messenger.PostMessage(ctx, cfg.LogChannelID, platform.Message{
			Embeds:     []platform.Embed{embed},
			Components: components,
		})
		if postErr != nil {
			// The case row persists regardless of the log post.
			log.Warn("log channel post failed",
				zap.Int64("case_id", c.CaseID),
				zap.Int64("channel_id", cfg.LogChannelID),
				zap.Error(postErr))
		} else {
			channelID := cfg.LogChannelID
			delivery.LogChannelID = &channelID
			delivery.LogMessageID = &messageID
		}
	}

	if err := s.repo.SaveDelivery(ctx, c.CommunityID, c.CaseID, delivery); err != nil {
		return fmt.Errorf("persist case delivery: %w", err)
	}

	log.Info("audit log entry reconciled",
		zap.Int64("case_id", c.CaseID),
		zap.Bool("matched", matched))
	return nil
}

// shouldDM: only native timeout adds/removes with a known reason notify
// the target. Adjusts go through the bot's own command, and bot-initiated
// actions notify through the command path.
func (s *Service) shouldDM(matched bool, e entry) bool {
	if matched || e.timeout == nil || e.reason == "" {
		return false
	}
	return e.timeout.Kind == enums.TimeoutChangeAdded || e.timeout.Kind == enums.TimeoutChangeRemoved
}
