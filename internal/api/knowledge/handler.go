package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/quorix/kb-backend/internal/entity"
	"github.com/quorix/kb-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

type Handler struct {
	usecase KnowledgeUsecase
}

func NewHandler(usecase KnowledgeUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// CreateEntry handles POST /knowledge-base/entries
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateEntry")

	var req entity.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	entry, err := h.usecase.CreateEntry(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toEntryDetail(entry))
}

// ListEntries handles GET /knowledge-base/entries
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListEntries")

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	req := entity.ListEntriesRequest{
		Skip:  skip,
		Limit: limit,
	}

	req.Normalize()

	entries, err := h.usecase.ListEntries(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	details := make([]*entity.EntryDetail, 0, len(entries))
	for _, e := range entries {
		details = append(details, toEntryDetail(e))
	}

	ctxzap.Info(ctx, "entries listed successfully", zap.Int("count", len(details)))

	h.respondJSON(w, http.StatusOK, &entity.ListEntriesResponse{
		Entries: details,
	})
}

// GetEntry handles GET /knowledge-base/entries/{entry_id}
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entry_id")

	ctx := logger.AddFields(r.Context(),
		zap.String("entry_id", entryID),
		zap.String("action", "GetEntry"),
	)

	entry, err := h.usecase.GetEntry(ctx, entryID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toEntryDetail(entry))
}

// UpdateUsageContext handles PATCH /knowledge-base/entries/{entry_id}/usage-context
func (h *Handler) UpdateUsageContext(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entry_id")

	ctx := logger.AddFields(r.Context(),
		zap.String("entry_id", entryID),
		zap.String("action", "UpdateUsageContext"),
	)

	var req entity.UpdateUsageContextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	entry, err := h.usecase.UpdateEntryUsageContext(ctx, entryID, req.UsageContext)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toEntryDetail(entry))
}

// SetEntryActive handles PATCH /knowledge-base/entries/{entry_id}/active
func (h *Handler) SetEntryActive(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entry_id")

	ctx := logger.AddFields(r.Context(),
		zap.String("entry_id", entryID),
		zap.String("action", "SetEntryActive"),
	)

	var req entity.SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	entry, err := h.usecase.SetEntryActive(ctx, entryID, req.IsActive)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toEntryDetail(entry))
}

// DeleteEntry handles DELETE /knowledge-base/entries/{entry_id}
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entry_id")

	ctx := logger.AddFields(r.Context(),
		zap.String("entry_id", entryID),
		zap.String("action", "DeleteEntry"),
	)

	if err := h.usecase.DeleteEntry(ctx, entryID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, &entity.DeleteSourceResponse{
		Status: "deleted",
	})
}

// ExportEntry handles GET /knowledge-base/entries/{entry_id}/export
func (h *Handler) ExportEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entry_id")
	format := entity.ExportFormat(r.URL.Query().Get("format"))

	ctx := logger.AddFields(r.Context(),
		zap.String("entry_id", entryID),
		zap.String("format", string(format)),
		zap.String("action", "ExportEntry"),
	)

	if !format.IsValid() {
		h.respondError(ctx, w, http.StatusBadRequest, "unsupported export format", nil)
		return
	}

	result, err := h.usecase.ExportEntry(ctx, entryID, format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Data)
}

// RegisterIndex handles POST /knowledge-base/llamacloud
func (h *Handler) RegisterIndex(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "RegisterIndex")

	var req entity.RegisterIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	index, err := h.usecase.RegisterIndex(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toIndexDetail(index))
}

// ListIndexes handles GET /knowledge-base/llamacloud
func (h *Handler) ListIndexes(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListIndexes")

	indexes, err := h.usecase.ListIndexes(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	details := make([]*entity.IndexDetail, 0, len(indexes))
	for _, i := range indexes {
		details = append(details, toIndexDetail(i))
	}

	h.respondJSON(w, http.StatusOK, &entity.ListIndexesResponse{
		Indexes: details,
	})
}

// GetIndex handles GET /knowledge-base/llamacloud/{kb_id}
func (h *Handler) GetIndex(w http.ResponseWriter, r *http.Request) {
	kbID := chi.URLParam(r, "kb_id")

	ctx := logger.AddFields(r.Context(),
		zap.String("kb_id", kbID),
		zap.String("action", "GetIndex"),
	)

	index, err := h.usecase.GetIndex(ctx, kbID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toIndexDetail(index))
}

// SetIndexActive handles PATCH /knowledge-base/llamacloud/{kb_id}/active
func (h *Handler) SetIndexActive(w http.ResponseWriter, r *http.Request) {
	kbID := chi.URLParam(r, "kb_id")

	ctx := logger.AddFields(r.Context(),
		zap.String("kb_id", kbID),
		zap.String("action", "SetIndexActive"),
	)

	var req entity.SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	index, err := h.usecase.SetIndexActive(ctx, kbID, req.IsActive)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toIndexDetail(index))
}

// DeleteIndex handles DELETE /knowledge-base/llamacloud/{kb_id}
func (h *Handler) DeleteIndex(w http.ResponseWriter, r *http.Request) {
	kbID := chi.URLParam(r, "kb_id")

	ctx := logger.AddFields(r.Context(),
		zap.String("kb_id", kbID),
		zap.String("action", "DeleteIndex"),
	)

	if err := h.usecase.DeleteIndex(ctx, kbID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, &entity.DeleteSourceResponse{
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
	switch {
	case errors.Is(err, entity.ErrEntryNotFound), errors.Is(err, entity.ErrIndexNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, entity.ErrIndexAlreadyExists):
		h.respondError(ctx, w, http.StatusConflict, "index already registered", err)
	case errors.Is(err, entity.ErrIndexUnavailable):
		h.respondError(ctx, w, http.StatusUnprocessableEntity, "index not found on llamacloud", err)
	case errors.Is(err, entity.ErrContentTooLarge):
		h.respondError(ctx, w, http.StatusRequestEntityTooLarge, "content too large", err)
	case errors.Is(err, entity.ErrInvalidUsageContext),
		errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrInvalidFormat),
		errors.Is(err, entity.ErrInvalidParameter):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
