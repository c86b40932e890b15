package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	communitysvc "github.com/sushiibot/modlog/internal/services/communities"
	"github.com/sushiibot/modlog/internal/transport/http/httperrors"
)

type CommunitiesHandler struct {
	communityService *communitysvc.Service
	logger           *zap.Logger
}

func NewCommunitiesHandler(communityService *communitysvc.Service, logger *zap.Logger) *CommunitiesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommunitiesHandler{communityService: communityService, logger: logger}
}

type communityConfigResponse struct {
	CommunityID    int64     `json:"community_id"`
	LogChannelID   int64     `json:"log_channel_id"`
	LoggingEnabled bool      `json:"logging_enabled"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}

func (h *CommunitiesHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	communityID, err := strconv.ParseInt(chi.URLParam(r, "communityID"), 10, 64)
	if err != nil || communityID <= 0 {
		httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: "BAD_COMMUNITY_ID", Message: "invalid community id"})
		return
	}

	cfg, found, err := h.communityService.Get(r.Context(), communityID)
	if err != nil {
		h.logger.Error("get community config failed", zap.Int64("community_id", communityID), zap.Error(err))
		httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: "INTERNAL", Message: "failed to load community config"})
		return
	}
	if !found {
		cfg.CommunityID = communityID
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(communityConfigResponse{
		CommunityID:    communityID,
		LogChannelID:   cfg.LogChannelID,
		LoggingEnabled: cfg.LoggingEnabled(),
		UpdatedAt:      cfg.UpdatedAt,
	})
}

type setLogChannelRequest struct {
	// LogChannelID 0 disables case logging for the community.
	LogChannelID int64 `json:"log_channel_id"`
}

func (h *CommunitiesHandler) SetLogChannel(w http.ResponseWriter, r *http.Request) {
	communityID, err := strconv.ParseInt(chi.URLParam(r, "communityID"), 10, 64)
	if err != nil || communityID <= 0 {
		httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: "BAD_COMMUNITY_ID", Message: "invalid community id"})
		return
	}

	var req setLogChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: "BAD_BODY", Message: "invalid request body"})
		return
	}
	if req.LogChannelID < 0 {
		httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: "BAD_LOG_CHANNEL", Message: "log channel id must be zero or positive"})
		return
	}

	if err := h.communityService.SetLogChannel(r.Context(), communityID, req.LogChannelID); err != nil {
		h.logger.Error("set log channel failed", zap.Int64("community_id", communityID), zap.Error(err))
		httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: "INTERNAL", Message: "failed to update community config"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(communityConfigResponse{
		CommunityID:    communityID,
		LogChannelID:   req.LogChannelID,
		LoggingEnabled: req.LogChannelID != 0,
	})
}
