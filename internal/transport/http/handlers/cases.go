package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sushiibot/modlog/internal/domain/model"
	pgrepo "github.com/sushiibot/modlog/internal/repo/postgres"
	casesvc "github.com/sushiibot/modlog/internal/services/cases"
	editorsvc "github.com/sushiibot/modlog/internal/services/editor"
	"github.com/sushiibot/modlog/internal/transport/http/httperrors"
)

type CasesHandler struct {
	caseService   *casesvc.Service
	editorService *editorsvc.Service
	logger        *zap.Logger
}

func NewCasesHandler(caseService *casesvc.Service, editorService *editorsvc.Service, logger *zap.Logger) *CasesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CasesHandler{caseService: caseService, editorService: editorService, logger: logger}
}

type caseResponse struct {
	CommunityID int64     `json:"community_id"`
	CaseID      int64     `json:"case_id"`
	Action      string    `json:"action"`
	ActionTime  time.Time `json:"action_time"`
	Pending     bool      `json:"pending"`
	UserID      int64     `json:"user_id"`
	UserTag     string    `json:"user_tag"`
	ExecutorID  *int64    `json:"executor_id,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Attachments []string  `json:"attachments,omitempty"`
	DMError     string    `json:"dm_error,omitempty"`
}

func toCaseResponse(c model.ModerationCase) caseResponse {
	return caseResponse{
		CommunityID: c.CommunityID,
		CaseID:      c.CaseID,
		Action:      string(c.Action),
		ActionTime:  c.ActionTime,
		Pending:     c.Pending,
		UserID:      c.UserID,
		UserTag:     c.UserTag,
		ExecutorID:  c.ExecutorID,
		Reason:      c.Reason,
		Attachments: c.Attachments,
		DMError:     c.DMError,
	}
}

func (h *CasesHandler) Get(w http.ResponseWriter, r *http.Request) {
	communityID, err := strconv.ParseInt(chi.URLParam(r, "communityID"), 10, 64)
	if err != nil || communityID <= 0 {
		httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: "BAD_COMMUNITY_ID", Message: "invalid community id"})
		return
	}
	caseID, err := strconv.ParseInt(chi.URLParam(r, "caseID"), 10, 64)
	if err != nil || caseID <= 0 {
		httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: "BAD_CASE_ID", Message: "invalid case id"})
		return
	}

	c, err := h.caseService.Get(r.Context(), communityID, caseID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrCaseNotFound) {
			httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: "CASE_NOT_FOUND", Message: "case not found"})
			return
		}
		h.logger.Error("get case failed", zap.Int64("community_id", communityID), zap.Int64("case_id", caseID), zap.Error(err))
		httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: "INTERNAL", Message: "failed to load case"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toCaseResponse(c))
}

type editReasonRequest struct {
	Specifier  string `json:"specifier"`
	Reason     string `json:"reason"`
	ExecutorID int64  `json:"executor_id"`
}

type editReasonResult struct {
	CaseID int64  `json:"case_id"`
	Error  string `json:"error,omitempty"`
}

func (h *CasesHandler) EditReason(w http.ResponseWriter, r *http.Request) {
	communityID, err := strconv.ParseInt(chi.URLParam(r, "communityID"), 10, 64)
	if err != nil || communityID <= 0 {
		httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: "BAD_COMMUNITY_ID", Message: "invalid community id"})
		return
	}

	var req editReasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: "BAD_BODY", Message: "invalid request body"})
		return
	}

	results, err := h.editorService.SetReason(r.Context(), communityID, req.Specifier, req.Reason, req.ExecutorID)
	if err != nil {
		switch {
		case errors.Is(err, editorsvc.ErrInvalidSpecifier),
			errors.Is(err, editorsvc.ErrRangeTooLarge),
			errors.Is(err, editorsvc.ErrNoCasesYet),
			errors.Is(err, editorsvc.ErrReasonRequired):
			httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: "BAD_SPECIFIER", Message: err.Error()})
		case errors.Is(err, editorsvc.ErrCaseNotFound):
			httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: "CASE_NOT_FOUND", Message: err.Error()})
		default:
			h.logger.Error("reason edit failed", zap.Int64("community_id", communityID), zap.Error(err))
			httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: "INTERNAL", Message: "failed to edit reason"})
		}
		return
	}

	out := make([]editReasonResult, 0, len(results))
	for _, res := range results {
		item := editReasonResult{CaseID: res.CaseID}
		if res.Err != nil {
			item.Error = res.Err.Error()
		}
		out = append(out, item)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]editReasonResult{"results": out})
}
