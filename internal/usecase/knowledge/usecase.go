package knowledge

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/quorix/kb-backend/internal/entity"
	"github.com/quorix/kb-backend/internal/pkg/formatter"
	"github.com/quorix/kb-backend/internal/pkg/validator"
	"github.com/quorix/kb-backend/internal/repository"
	"go.uber.org/zap"
)

// KnowledgeUsecase implements knowledge source business logic for both
// source kinds: locally stored entries and externally indexed LlamaCloud KBs.
type KnowledgeUsecase struct {
	entryRepo  repository.EntryRepository
	indexRepo  repository.CloudIndexRepository
	validator  *validator.Validator
	llamaCloud LlamaCloudConnector
	formatters *formatter.Factory
	logger     *zap.Logger
}

// NewUsecase creates a new knowledge use case
func NewUsecase(
	entryRepo repository.EntryRepository,
	indexRepo repository.CloudIndexRepository,
	validator *validator.Validator,
	llamaCloud LlamaCloudConnector,
	logger *zap.Logger,
) *KnowledgeUsecase {
	return &KnowledgeUsecase{
		entryRepo:  entryRepo,
		indexRepo:  indexRepo,
		validator:  validator,
		llamaCloud: llamaCloud,
		formatters: formatter.NewFactory(),
		logger:     logger,
	}
}

// CreateEntry stores a new regular knowledge entry
func (uc *KnowledgeUsecase) CreateEntry(ctx context.Context, req *entity.CreateEntryRequest) (*entity.KnowledgeEntry, error) {
	if err := uc.validator.ValidateCreateEntry(req); err != nil {
		return nil, err
	}

	usageContext := req.UsageContext
	if usageContext == "" {
		usageContext = entity.UsageContextContextual
	}

	entry := entity.KnowledgeEntry{
		ID:            uuid.New().String(),
		Name:          req.Name,
		Content:       req.Content,
		UsageContext:  usageContext,
		IsActive:      true,
		ContentTokens: estimateContentTokens(req.Content),
	}

	created, err := uc.entryRepo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	ctxzap.Info(ctx, "knowledge entry created",
		zap.String("entry_id", created.ID),
		zap.String("name", created.Name),
		zap.Int("content_tokens", created.ContentTokens),
	)

	return created, nil
}

// ListEntries retrieves entries with pagination
func (uc *KnowledgeUsecase) ListEntries(ctx context.Context, req *entity.ListEntriesRequest) ([]*entity.KnowledgeEntry, error) {
	entries, err := uc.entryRepo.List(ctx, req.Skip, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return entries, nil
}

// GetEntry retrieves an entry by ID
func (uc *KnowledgeUsecase) GetEntry(ctx context.Context, id string) (*entity.KnowledgeEntry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: invalid entry ID format", entity.ErrInvalidParameter)
	}

	entry, err := uc.entryRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}

	return entry, nil
}

// UpdateEntryUsageContext changes when an entry is offered to agents
func (uc *KnowledgeUsecase) UpdateEntryUsageContext(ctx context.Context, id string, usageContext entity.UsageContext) (*entity.KnowledgeEntry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: invalid entry ID format", entity.ErrInvalidParameter)
	}

	if err := usageContext.Validate(); err != nil {
		return nil, err
	}

	entry, err := uc.entryRepo.UpdateUsageContext(ctx, id, usageContext)
	if err != nil {
		return nil, fmt.Errorf("update usage context: %w", err)
	}

	ctxzap.Info(ctx, "entry usage context updated",
		zap.String("entry_id", id),
		zap.String("usage_context", string(usageContext)),
	)

	return entry, nil
}

// SetEntryActive toggles an entry's active flag
func (uc *KnowledgeUsecase) SetEntryActive(ctx context.Context, id string, active bool) (*entity.KnowledgeEntry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: invalid entry ID format", entity.ErrInvalidParameter)
	}

	entry, err := uc.entryRepo.SetActive(ctx, id, active)
	if err != nil {
		return nil, fmt.Errorf("set entry active: %w", err)
	}

	ctxzap.Info(ctx, "entry active flag updated",
		zap.String("entry_id", id),
		zap.Bool("is_active", active),
	)

	return entry, nil
}

// DeleteEntry deletes an entry. Agent assignments referencing it are removed
// by cascade, keeping every assignment set a subset of owned sources.
func (uc *KnowledgeUsecase) DeleteEntry(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid entry ID format", entity.ErrInvalidParameter)
	}

	if err := uc.entryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	ctxzap.Info(ctx, "knowledge entry deleted", zap.String("entry_id", id))
	return nil
}

// ExportEntry renders an entry's content in the requested format
func (uc *KnowledgeUsecase) ExportEntry(ctx context.Context, id string, format entity.ExportFormat) (*entity.ExportResult, error) {
	entry, err := uc.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	f, err := uc.formatters.Create(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidParameter, format)
	}

	data, err := f.Format(entry.Name, entry.Content)
	if err != nil {
		return nil, fmt.Errorf("format entry: %w", err)
	}

	ctxzap.Info(ctx, "entry exported",
		zap.String("entry_id", id),
		zap.String("format", string(format)),
		zap.Int("size", len(data)),
	)

	return &entity.ExportResult{
		Data:        data,
		ContentType: f.ContentType(),
		Filename:    validator.SanitizeFilename(entry.Name) + f.FileExtension(),
	}, nil
}

// RegisterIndex registers an externally hosted LlamaCloud index after
// confirming the pipeline actually exists on the LlamaCloud side.
func (uc *KnowledgeUsecase) RegisterIndex(ctx context.Context, req *entity.RegisterIndexRequest) (*entity.CloudIndex, error) {
	if err := uc.validator.ValidateRegisterIndex(req); err != nil {
		return nil, err
	}

	if _, err := uc.indexRepo.GetByIndexName(ctx, req.IndexName); err == nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrIndexAlreadyExists, req.IndexName)
	} else if !errors.Is(err, entity.ErrIndexNotFound) {
		return nil, fmt.Errorf("check index name: %w", err)
	}

	pipeline, err := uc.llamaCloud.LookupPipeline(ctx, req.IndexName)
	if err != nil {
		return nil, fmt.Errorf("validate index: %w", err)
	}

	index := entity.CloudIndex{
		ID:        uuid.New().String(),
		Name:      req.Name,
		IndexName: req.IndexName,
		IsActive:  true,
	}

	created, err := uc.indexRepo.Create(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	ctxzap.Info(ctx, "llamacloud index registered",
		zap.String("kb_id", created.ID),
		zap.String("index_name", created.IndexName),
		zap.String("pipeline_id", pipeline.ID),
	)

	return created, nil
}

// ListIndexes retrieves all registered LlamaCloud indexes
func (uc *KnowledgeUsecase) ListIndexes(ctx context.Context) ([]*entity.CloudIndex, error) {
	indexes, err := uc.indexRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indexes: %w", err)
	}

	return indexes, nil
}

// GetIndex retrieves an index by ID
func (uc *KnowledgeUsecase) GetIndex(ctx context.Context, id string) (*entity.CloudIndex, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: invalid index ID format", entity.ErrInvalidParameter)
	}

	index, err := uc.indexRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get index: %w", err)
	}

	return index, nil
}

// SetIndexActive toggles an index's active flag
func (uc *KnowledgeUsecase) SetIndexActive(ctx context.Context, id string, active bool) (*entity.CloudIndex, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: invalid index ID format", entity.ErrInvalidParameter)
	}

	index, err := uc.indexRepo.SetActive(ctx, id, active)
	if err != nil {
		return nil, fmt.Errorf("set index active: %w", err)
	}

	ctxzap.Info(ctx, "index active flag updated",
		zap.String("kb_id", id),
		zap.Bool("is_active", active),
	)

	return index, nil
}

// DeleteIndex removes a registered index. Assignments cascade away with it.
func (uc *KnowledgeUsecase) DeleteIndex(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid index ID format", entity.ErrInvalidParameter)
	}

	if err := uc.indexRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete index: %w", err)
	}

	ctxzap.Info(ctx, "llamacloud index deleted", zap.String("kb_id", id))
	return nil
}
