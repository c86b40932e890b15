package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sushiibot/modlog/internal/config"
	casesvc "github.com/sushiibot/modlog/internal/services/cases"
	communitysvc "github.com/sushiibot/modlog/internal/services/communities"
	editorsvc "github.com/sushiibot/modlog/internal/services/editor"
	"github.com/sushiibot/modlog/internal/transport/http/handlers"
)

type Dependencies struct {
	CaseService      *casesvc.Service
	EditorService    *editorsvc.Service
	CommunityService *communitysvc.Service
	Logger           *zap.Logger
	Config           config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	casesHandler := handlers.NewCasesHandler(deps.CaseService, deps.EditorService, deps.Logger)
	communitiesHandler := handlers.NewCommunitiesHandler(deps.CommunityService, deps.Logger)
	authMW := AuthMiddleware(deps.Config.Auth.JWTSecret, deps.Logger)

	r.Get("/healthz", healthHandler.Check)

	r.Route("/v1", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/communities/{communityID}/cases/{caseID}", casesHandler.Get)
		r.Patch("/communities/{communityID}/cases", casesHandler.EditReason)
		r.Get("/communities/{communityID}/config", communitiesHandler.GetConfig)
		r.Put("/communities/{communityID}/config", communitiesHandler.SetLogChannel)
	})
}
