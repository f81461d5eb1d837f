package knowledge

import (
	"context"

	"github.com/quorix/kb-backend/internal/entity"
)

type LlamaCloudConnector interface {
	LookupPipeline(ctx context.Context, indexName string) (*entity.LlamaCloudPipeline, error)
}
