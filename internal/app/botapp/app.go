package botapp

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sushiibot/modlog/internal/config"
	"github.com/sushiibot/modlog/internal/platform"
	pgrepo "github.com/sushiibot/modlog/internal/repo/postgres"
	redrepo "github.com/sushiibot/modlog/internal/repo/redis"
	casesvc "github.com/sushiibot/modlog/internal/services/cases"
	communitysvc "github.com/sushiibot/modlog/internal/services/communities"
	editorsvc "github.com/sushiibot/modlog/internal/services/editor"
	orchsvc "github.com/sushiibot/modlog/internal/services/orchestrator"
)

// Collaborators are the platform-facing clients owned outside this module:
// the gateway event stream and the REST messenger.
type Collaborators struct {
	Gateway   platform.Gateway
	Messenger platform.Messenger
}

type App struct {
	cfg    config.Config
	logger *zap.Logger

	postgres *pgxpool.Pool
	redis    *goredis.Client
	gateway  platform.Gateway

	orchestratorService *orchsvc.Service
	caseService         *casesvc.Service
	editorService       *editorsvc.Service
	communityService    *communitysvc.Service
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger, collab Collaborators) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	pool, err := pgrepo.NewPool(ctx, pgrepo.PoolConfig{
		DSN:             cfg.Postgres.DSN,
		MaxConns:        cfg.Postgres.MaxConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("init postgres for bot app: %w", err)
	}

	var redisClient *goredis.Client
	var configCache communitysvc.Cache
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		redisClient = redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		configCache = redrepo.NewCommunityConfigCacheRepo(redisClient, cfg.Moderation.ConfigCacheTTL)
	} else {
		logger.Warn("REDIS_ADDR is empty, community config cache disabled")
	}

	caseRepo := pgrepo.NewCaseRepo(pool)
	communityConfigRepo := pgrepo.NewCommunityConfigRepo(pool)

	communityService := communitysvc.NewService(communityConfigRepo, configCache, logger)
	orchestratorService := orchsvc.NewService(
		caseRepo,
		communityService,
		collab.Messenger,
		cfg.Moderation.CorrelationWindow,
		logger,
	)
	caseService := casesvc.NewService(caseRepo, collab.Messenger, logger)
	editorService := editorsvc.NewService(caseRepo, collab.Messenger, logger)

	return &App{
		cfg:                 cfg,
		logger:              logger,
		postgres:            pool,
		redis:               redisClient,
		gateway:             collab.Gateway,
		orchestratorService: orchestratorService,
		caseService:         caseService,
		editorService:       editorService,
		communityService:    communityService,
	}, nil
}

// CaseService exposes the command-handler contract: create a pending case
// before the platform mutation, abort on allocation failure.
func (a *App) CaseService() *casesvc.Service {
	return a.caseService
}

func (a *App) EditorService() *editorsvc.Service {
	return a.editorService
}

func (a *App) CommunityService() *communitysvc.Service {
	return a.communityService
}

func (a *App) Run(ctx context.Context) error {
	if a.gateway == nil {
		a.logger.Warn("gateway is not configured, event listener disabled")
		<-ctx.Done()
		return nil
	}

	a.logger.Info("bot app listening for gateway events")
	return a.gateway.Listen(ctx, a.handlers())
}

func (a *App) Close() {
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
