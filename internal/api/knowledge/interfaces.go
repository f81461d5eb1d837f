package knowledge

import (
	"context"

	"github.com/quorix/kb-backend/internal/entity"
)

type KnowledgeUsecase interface {
	CreateEntry(ctx context.Context, req *entity.CreateEntryRequest) (*entity.KnowledgeEntry, error)
	ListEntries(ctx context.Context, req *entity.ListEntriesRequest) ([]*entity.KnowledgeEntry, error)
	GetEntry(ctx context.Context, id string) (*entity.KnowledgeEntry, error)
	UpdateEntryUsageContext(ctx context.Context, id string, usageContext entity.UsageContext) (*entity.KnowledgeEntry, error)
	SetEntryActive(ctx context.Context, id string, active bool) (*entity.KnowledgeEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	ExportEntry(ctx context.Context, id string, format entity.ExportFormat) (*entity.ExportResult, error)

	RegisterIndex(ctx context.Context, req *entity.RegisterIndexRequest) (*entity.CloudIndex, error)
	ListIndexes(ctx context.Context) ([]*entity.CloudIndex, error)
	GetIndex(ctx context.Context, id string) (*entity.CloudIndex, error)
	SetIndexActive(ctx context.Context, id string, active bool) (*entity.CloudIndex, error)
	DeleteIndex(ctx context.Context, id string) error
}
