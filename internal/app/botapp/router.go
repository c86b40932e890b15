package botapp

import (
	"context"

	"go.uber.org/zap"

	"github.com/sushiibot/modlog/internal/platform"
)

// handlers wraps the orchestrator so a failed entry is fatal only to
// itself: every handler logs and swallows, keeping the listener alive.
func (a *App) handlers() platform.Handlers {
	return platform.Handlers{
		OnAuditLogEntry: a.handleAuditLogEntry,
		OnBanAdd:        a.handleBanAdd,
		OnBanRemove:     a.handleBanRemove,
		OnComponent:     a.handleComponent,
	}
}

func (a *App) handleAuditLogEntry(ctx context.Context, communityID int64, entry platform.AuditLogEntry) error {
	if err := a.orchestratorService.HandleAuditLogEntry(ctx, communityID, entry); err != nil {
		a.logger.Error("audit log entry dropped",
			zap.Int64("community_id", communityID),
			zap.String("kind", string(entry.Kind)),
			zap.Int64("target_id", entry.TargetID),
			zap.Error(err))
	}
	return nil
}

func (a *App) handleBanAdd(ctx context.Context, event platform.BanEvent) error {
	if err := a.orchestratorService.HandleBanAdd(ctx, event); err != nil {
		a.logger.Error("ban event dropped",
			zap.Int64("community_id", event.CommunityID),
			zap.Int64("user_id", event.User.ID),
			zap.Error(err))
	}
	return nil
}

func (a *App) handleBanRemove(ctx context.Context, event platform.BanEvent) error {
	if err := a.orchestratorService.HandleBanRemove(ctx, event); err != nil {
		a.logger.Error("unban event dropped",
			zap.Int64("community_id", event.CommunityID),
			zap.Int64("user_id", event.User.ID),
			zap.Error(err))
	}
	return nil
}

func (a *App) handleComponent(ctx context.Context, interaction platform.ComponentInteraction) error {
	if err := a.orchestratorService.HandleComponent(ctx, interaction); err != nil {
		a.logger.Error("component interaction failed",
			zap.Int64("community_id", interaction.CommunityID),
			zap.String("custom_id", interaction.CustomID),
			zap.Error(err))
	}
	return nil
}
