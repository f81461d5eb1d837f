package llamacloud

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"github.com/quorix/kb-backend/internal/config"
	"github.com/quorix/kb-backend/internal/entity"
	"github.com/quorix/kb-backend/internal/integration/common"
	pkghttp "github.com/quorix/kb-backend/pkg/http"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.LlamaCloudConnectorConfig
	connector *pkghttp.Connector
	cache     *gocache.Cache
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LlamaCloudConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		cache:     gocache.New(cfg.MetadataCacheTTL, 2*cfg.MetadataCacheTTL),
		config:    cfg,
		logger:    logger,
	}
}

// LookupPipeline resolves an index name to its LlamaCloud pipeline.
// GET {pipelines_endpoint}?pipeline_name={name}
// Results are cached for the configured TTL: registration and assignment
// toggling hit the same few indexes repeatedly.
func (c *Connector) LookupPipeline(ctx context.Context, indexName string) (*entity.LlamaCloudPipeline, error) {
	if cached, ok := c.cache.Get(indexName); ok {
		return cached.(*entity.LlamaCloudPipeline), nil
	}

	endpoint := fmt.Sprintf("%s?pipeline_name=%s", c.config.PipelinesEndpoint, url.QueryEscape(indexName))

	ctxzap.Debug(ctx, "looking up llamacloud pipeline", zap.String("index_name", indexName))

	var pipelines []entity.LlamaCloudPipeline
	err := retry.Do(
		func() error {
			pipelines = pipelines[:0]
			return c.connector.DoRequest(ctx, http.MethodGet, endpoint, nil, &pipelines)
		},
		append(c.config.Retry.ToRetryOptions(),
			retry.Context(ctx),
			retry.RetryIf(isRetriable),
		)...,
	)
	if err != nil {
		ctxzap.Error(ctx, "failed to look up pipeline", zap.Error(err))
		return nil, fmt.Errorf("lookup pipeline %s: %w", indexName, err)
	}

	if len(pipelines) == 0 {
		ctxzap.Warn(ctx, "pipeline not found in llamacloud", zap.String("index_name", indexName))
		return nil, fmt.Errorf("%w: %s", entity.ErrIndexUnavailable, indexName)
	}

	pipeline := &pipelines[0]
	c.cache.Set(indexName, pipeline, gocache.DefaultExpiration)

	ctxzap.Info(ctx, "pipeline resolved",
		zap.String("index_name", indexName),
		zap.String("pipeline_id", pipeline.ID),
	)

	return pipeline, nil
}

// isRetriable keeps retries to transient failures: network errors and 5xx.
// A 4xx answer will not change on the next attempt.
func isRetriable(err error) bool {
	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500
	}
	return true
}
