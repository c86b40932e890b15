package communities

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sushiibot/modlog/internal/domain/model"
	pgrepo "github.com/sushiibot/modlog/internal/repo/postgres"
)

type Repo interface {
	Get(ctx context.Context, communityID int64) (model.CommunityConfig, error)
	SetLogChannel(ctx context.Context, communityID, channelID int64) error
}

type Cache interface {
	Get(ctx context.Context, communityID int64) (model.CommunityConfig, bool, error)
	Set(ctx context.Context, cfg model.CommunityConfig) error
	Invalidate(ctx context.Context, communityID int64) error
}

type Service struct {
	repo   Repo
	cache  Cache
	logger *zap.Logger
}

func NewService(repo Repo, cache Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Get returns the community config, cache-aside. found is false when the
// community has no config row at all.
func (s *Service) Get(ctx context.Context, communityID int64) (model.CommunityConfig, bool, error) {
	if s.repo == nil {
		return model.CommunityConfig{}, false, fmt.Errorf("community config repo is not configured")
	}

	if s.cache != nil {
		cfg, hit, err := s.cache.Get(ctx, communityID)
		if err != nil {
			s.logger.Warn("community config cache read failed", zap.Int64("community_id", communityID), zap.Error(err))
		} else if hit {
			return cfg, true, nil
		}
	}

	cfg, err := s.repo.Get(ctx, communityID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrCommunityConfigNotFound) {
			return model.CommunityConfig{}, false, nil
		}
		return model.CommunityConfig{}, false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cfg); err != nil {
			s.logger.Warn("community config cache write failed", zap.Int64("community_id", communityID), zap.Error(err))
		}
	}

	return cfg, true, nil
}

func (s *Service) SetLogChannel(ctx context.Context, communityID, channelID int64) error {
	if s.repo == nil {
		return fmt.Errorf("community config repo is not configured")
	}

	if err := s.repo.SetLogChannel(ctx, communityID, channelID); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, communityID); err != nil {
			s.logger.Warn("community config cache invalidate failed", zap.Int64("community_id", communityID), zap.Error(err))
		}
	}

	return nil
}
