package communities

import (
	"context"
	"testing"

	"github.com/sushiibot/modlog/internal/domain/model"
	pgrepo "github.com/sushiibot/modlog/internal/repo/postgres"
)

type fakeRepo struct {
	configs map[int64]model.CommunityConfig
	gets    int
}

func (r *fakeRepo) Get(_ context.Context, communityID int64) (model.CommunityConfig, error) {
	r.gets++
	cfg, ok := r.configs[communityID]
	if !ok {
		return model.CommunityConfig{}, pgrepo.ErrCommunityConfigNotFound
	}
	return cfg, nil
}

func (r *fakeRepo) SetLogChannel(_ context.Context, communityID, channelID int64) error {
	if r.configs == nil {
		r.configs = map[int64]model.CommunityConfig{}
	}
	r.configs[communityID] = model.CommunityConfig{CommunityID: communityID, LogChannelID: channelID}
	return nil
}

type fakeCache struct {
	entries     map[int64]model.CommunityConfig
	invalidated []int64
}

func (c *fakeCache) Get(_ context.Context, communityID int64) (model.CommunityConfig, bool, error) {
	cfg, ok := c.entries[communityID]
	return cfg, ok, nil
}

func (c *fakeCache) Set(_ context.Context, cfg model.CommunityConfig) error {
	if c.entries == nil {
		c.entries = map[int64]model.CommunityConfig{}
	}
	c.entries[cfg.CommunityID] = cfg
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, communityID int64) error {
	delete(c.entries, communityID)
	c.invalidated = append(c.invalidated, communityID)
	return nil
}

func TestGetCacheAside(t *testing.T) {
	repo := &fakeRepo{configs: map[int64]model.CommunityConfig{
		1: {CommunityID: 1, LogChannelID: 100},
	}}
	cache := &fakeCache{}
	svc := NewService(repo, cache, nil)
	ctx := context.Background()

	cfg, found, err := svc.Get(ctx, 1)
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if cfg.LogChannelID != 100 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if repo.gets != 1 {
		t.Fatalf("expected one repo read, got %d", repo.gets)
	}

	if _, _, err := svc.Get(ctx, 1); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if repo.gets != 1 {
		t.Fatalf("second read should hit the cache, repo reads=%d", repo.gets)
	}
}

func TestGetUnknownCommunityIsNotAnError(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeCache{}, nil)

	_, found, err := svc.Get(context.Background(), 404)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatalf("expected not found")
	}
}

func TestSetLogChannelInvalidatesCache(t *testing.T) {
	repo := &fakeRepo{}
	cache := &fakeCache{entries: map[int64]model.CommunityConfig{
		5: {CommunityID: 5, LogChannelID: 1},
	}}
	svc := NewService(repo, cache, nil)

	if err := svc.SetLogChannel(context.Background(), 5, 999); err != nil {
		t.Fatalf("set log channel: %v", err)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != 5 {
		t.Fatalf("cache not invalidated: %+v", cache.invalidated)
	}

	cfg, found, err := svc.Get(context.Background(), 5)
	if err != nil || !found {
		t.Fatalf("get after set: found=%v err=%v", found, err)
	}
	if cfg.LogChannelID != 999 {
		t.Fatalf("stale config after set: %+v", cfg)
	}
}
