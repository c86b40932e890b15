package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sushiibot/modlog/internal/domain/model"
)

const communityConfigKeyPrefix = "modlog:community_config:"

// CommunityConfigCacheRepo fronts the community_configs table so the
// config gate on every audit-log entry does not hit Postgres.
type CommunityConfigCacheRepo struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewCommunityConfigCacheRepo(client *goredis.Client, ttl time.Duration) *CommunityConfigCacheRepo {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CommunityConfigCacheRepo{client: client, ttl: ttl}
}

func configKey(communityID int64) string {
	return fmt.Sprintf("%s%d", communityConfigKeyPrefix, communityID)
}

func (r *CommunityConfigCacheRepo) Get(ctx context.Context, communityID int64) (model.CommunityConfig, bool, error) {
	if r == nil || r.client == nil {
		return model.CommunityConfig{}, false, nil
	}

	raw, err := r.client.Get(ctx, configKey(communityID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return model.CommunityConfig{}, false, nil
		}
		return model.CommunityConfig{}, false, fmt.Errorf("get cached community config: %w", err)
	}

	var cfg model.CommunityConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		// Treat a corrupt entry as a miss so it gets rewritten.
		return model.CommunityConfig{}, false, nil
	}

	return cfg, true, nil
}

func (r *CommunityConfigCacheRepo) Set(ctx context.Context, cfg model.CommunityConfig) error {
	if r == nil || r.client == nil {
		return nil
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal community config: %w", err)
	}

	if err := r.client.Set(ctx, configKey(cfg.CommunityID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache community config: %w", err)
	}
	return nil
}

func (r *CommunityConfigCacheRepo) Invalidate(ctx context.Context, communityID int64) error {
	if r == nil || r.client == nil {
		return nil
	}

	if err := r.client.Del(ctx, configKey(communityID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached community config: %w", err)
	}
	return nil
}
