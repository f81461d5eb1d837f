package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/quorix/kb-backend/internal/entity"
	"github.com/quorix/kb-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

type Handler struct {
	usecase AgentUsecase
}

func NewHandler(usecase AgentUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// CreateAgent handles POST /agents
func (h *Handler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateAgent")

	var req entity.CreateAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	agent, err := h.usecase.CreateAgent(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "agent created", zap.String("agent_id", agent.ID))
	h.respondJSON(w, http.StatusCreated, toAgentDetail(agent))
}

// ListAgents handles GET /agents
func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListAgents")

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	req := entity.ListAgentsRequest{
		Skip:  skip,
		Limit: limit,
	}

	req.Normalize()

	agents, err := h.usecase.ListAgents(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	summaries := make([]*entity.AgentSummary, 0, len(agents))
	for _, a := range agents {
		summaries = append(summaries, toAgentSummary(a))
	}

	ctxzap.Info(ctx, "agents listed successfully", zap.Int("count", len(summaries)))

	h.respondJSON(w, http.StatusOK, &entity.ListAgentsResponse{
		Agents: summaries,
	})
}

// GetAgent handles GET /agents/{agent_id}
func (h *Handler) GetAgent(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agent_id")

	ctx := logger.AddFields(r.Context(),
		zap.String("agent_id", agentID),
		zap.String("action", "GetAgent"),
	)

	agent, err := h.usecase.GetAgent(ctx, agentID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toAgentDetail(agent))
}

// DeleteAgent handles DELETE /agents/{agent_id}
func (h *Handler) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agent_id")

	ctx := logger.AddFields(r.Context(),
		zap.String("agent_id", agentID),
		zap.String("action", "DeleteAgent"),
	)

	if err := h.usecase.DeleteAgent(ctx, agentID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "agent deleted successfully")
	h.respondJSON(w, http.StatusOK, &entity.DeleteAgentResponse{
		Status: "deleted",
	})
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
	if errors.Is(err, entity.ErrAgentNotFound) {
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	} else if errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrMissingField) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
