package llamacloud

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/quorix/kb-backend/internal/entity"
	"go.uber.org/zap"
)

// MockConnector resolves every index name to a fake pipeline.
// Used when ENABLE_MOCKS is set so the service runs without LlamaCloud access.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{logger: logger}
}

func (c *MockConnector) LookupPipeline(ctx context.Context, indexName string) (*entity.LlamaCloudPipeline, error) {
	ctxzap.Info(ctx, "mock llamacloud lookup", zap.String("index_name", indexName))

	return &entity.LlamaCloudPipeline{
		ID:           "mock-pipeline-" + indexName,
		Name:         indexName,
		ProjectID:    "mock-project",
		PipelineType: "MANAGED",
	}, nil
}
