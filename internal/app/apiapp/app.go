package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
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
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
}

// New builds the ops API. messenger may be nil; reason edits then update
// rows only and skip patching posted log messages.
func New(ctx context.Context, cfg config.Config, log *zap.Logger, messenger platform.Messenger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	pool, err := pgrepo.NewPool(ctx, pgrepo.PoolConfig{
		DSN:             cfg.Postgres.DSN,
		MaxConns:        cfg.Postgres.MaxConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("init postgres for api app: %w", err)
	}

	var redisClient *goredis.Client
	var configCache communitysvc.Cache
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		redisClient = redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		configCache = redrepo.NewCommunityConfigCacheRepo(redisClient, cfg.Moderation.ConfigCacheTTL)
	} else {
		log.Warn("REDIS_ADDR is empty, community config cache disabled")
	}
	communityService := communitysvc.NewService(pgrepo.NewCommunityConfigRepo(pool), configCache, log)

	caseRepo := pgrepo.NewCaseRepo(pool)
	caseService := casesvc.NewService(caseRepo, messenger, log)
	editorService := editorsvc.NewService(caseRepo, messenger, log)

	RegisterRoutes(r, Dependencies{
		CaseService:      caseService,
		EditorService:    editorService,
		CommunityService: communityService,
		Logger:           log,
		Config:           cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
