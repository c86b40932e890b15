package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sushiibot/modlog/internal/domain/model"
)

var ErrCommunityConfigNotFound = errors.New("community config not found")

type CommunityConfigRepo struct {
	pool *pgxpool.Pool
}

func NewCommunityConfigRepo(pool *pgxpool.Pool) *CommunityConfigRepo {
	return &CommunityConfigRepo{pool: pool}
}

func (r *CommunityConfigRepo) Get(ctx context.Context, communityID int64) (model.CommunityConfig, error) {
	if r.pool == nil {
		return model.CommunityConfig{}, ErrCommunityConfigNotFound
	}

	cfg := model.CommunityConfig{}
	err := r.pool.QueryRow(ctx, `
SELECT community_id,
       COALESCE(log_channel_id, 0),
       updated_at
FROM community_configs
WHERE community_id = $1
`, communityID).Scan(&cfg.CommunityID, &cfg.LogChannelID, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.CommunityConfig{}, ErrCommunityConfigNotFound
		}
		return model.CommunityConfig{}, fmt.Errorf("get community config: %w", err)
	}
	cfg.UpdatedAt = cfg.UpdatedAt.UTC()

	return cfg, nil
}

func (r *CommunityConfigRepo) SetLogChannel(ctx context.Context, communityID, channelID int64) error {
	if r.pool == nil {
		return errors.New("postgres pool is nil")
	}
	if communityID <= 0 {
		return fmt.Errorf("invalid community id")
	}

	_, err := r.pool.Exec(ctx, `
INSERT INTO community_configs (community_id, log_channel_id, updated_at)
VALUES ($1, NULLIF($2, 0), NOW())
ON CONFLICT (community_id) DO UPDATE SET
	log_channel_id = NULLIF($2, 0),
	updated_at = NOW()
`, communityID, channelID)
	if err != nil {
		return fmt.Errorf("set community log channel: %w", err)
	}
	return nil
}
