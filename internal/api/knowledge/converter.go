package knowledge

import (
	"time"

	"github.com/quorix/kb-backend/internal/entity"
)

func toEntryDetail(e *entity.KnowledgeEntry) *entity.EntryDetail {
	return &entity.EntryDetail{
		ID:            e.ID,
		Name:          e.Name,
		UsageContext:  e.UsageContext,
		IsActive:      e.IsActive,
		ContentTokens: e.ContentTokens,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     e.UpdatedAt.Format(time.RFC3339),
	}
}

func toIndexDetail(i *entity.CloudIndex) *entity.IndexDetail {
	return &entity.IndexDetail{
		ID:        i.ID,
		Name:      i.Name,
		IndexName: i.IndexName,
		IsActive:  i.IsActive,
		CreatedAt: i.CreatedAt.Format(time.RFC3339),
	}
}
