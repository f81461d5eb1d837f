package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/quorix/kb-backend/internal/api"
	agentapi "github.com/quorix/kb-backend/internal/api/agent"
	assignmentapi "github.com/quorix/kb-backend/internal/api/assignment"
	knowledgeapi "github.com/quorix/kb-backend/internal/api/knowledge"
	"github.com/quorix/kb-backend/internal/config"
	"github.com/quorix/kb-backend/internal/integration/llamacloud"
	"github.com/quorix/kb-backend/internal/pkg/validator"
	"github.com/quorix/kb-backend/internal/repository"
	"github.com/quorix/kb-backend/internal/usecase/agent"
	"github.com/quorix/kb-backend/internal/usecase/assignment"
	"github.com/quorix/kb-backend/internal/usecase/knowledge"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize repositories
	agentRepo := repository.NewAgentPostgres(db)
	entryRepo := repository.NewEntryPostgres(db)
	indexRepo := repository.NewCloudIndexPostgres(db)
	assignmentRepo := repository.NewAssignmentPostgres(db)
	logger.Info("Repositories initialized")

	// Initialize external service connector (with mock support)
	var llamaCloudConnector knowledge.LlamaCloudConnector
	if cfg.EnableMocks {
		logger.Info("Using mock connector for LlamaCloud")
		llamaCloudConnector = llamacloud.NewMockConnector(logger)
	} else {
		logger.Info("Using real connector for LlamaCloud")
		llamaCloudConnector = llamacloud.NewConnector(cfg.LlamaCloudConnectorCfg, logger)
	}

	// Initialize validators
	knowledgeValidator := validator.NewKnowledgeValidator(cfg.KnowledgeCfg)
	logger.Info("Validators initialized")

	// Initialize use cases
	agentUC := agent.NewUsecase(agentRepo, knowledgeValidator, logger)

	knowledgeUC := knowledge.NewUsecase(
		entryRepo,
		indexRepo,
		knowledgeValidator,
		llamaCloudConnector,
		logger,
	)

	assignmentUC := assignment.NewUsecase(
		agentRepo,
		entryRepo,
		indexRepo,
		assignmentRepo,
		logger,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	agentHandler := agentapi.NewHandler(agentUC)
	knowledgeHandler := knowledgeapi.NewHandler(knowledgeUC)
	assignmentHandler := assignmentapi.NewHandler(assignmentUC)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(agentHandler, knowledgeHandler, assignmentHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}
