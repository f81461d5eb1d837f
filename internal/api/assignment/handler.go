package assignment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/quorix/kb-backend/internal/entity"
	"github.com/quorix/kb-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

type Handler struct {
	usecase AssignmentUsecase
}

func NewHandler(usecase AssignmentUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// GetUnified handles GET /knowledge-base/agents/{agent_id}/assignments/unified
func (h *Handler) GetUnified(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agent_id")

	ctx := logger.AddFields(r.Context(),
		zap.String("agent_id", agentID),
		zap.String("action", "GetUnifiedAssignments"),
	)

	set, err := h.usecase.GetUnified(ctx, agentID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toUnifiedResponse(set))
}

// SetUnified handles POST /knowledge-base/agents/{agent_id}/assignments/unified
func (h *Handler) SetUnified(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agent_id")

	ctx := logger.AddFields(r.Context(),
		zap.String("agent_id", agentID),
		zap.String("action", "SetUnifiedAssignments"),
	)

	var req entity.SetUnifiedAssignmentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	set, err := h.usecase.SetUnified(ctx, agentID, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "unified assignments updated")
	h.respondJSON(w, http.StatusOK, toUnifiedResponse(set))
}

// Helper methods
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Error(ctx, message)
	}
	h.respondJSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrAgentNotFound),
		errors.Is(err, entity.ErrEntryNotFound),
		errors.Is(err, entity.ErrIndexNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, entity.ErrInvalidParameter):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
