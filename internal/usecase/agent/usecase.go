package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/quorix/kb-backend/internal/entity"
	"github.com/quorix/kb-backend/internal/pkg/validator"
	"github.com/quorix/kb-backend/internal/repository"
	"go.uber.org/zap"
)

// AgentUsecase implements agent business logic
type AgentUsecase struct {
	agentRepo repository.AgentRepository
	validator *validator.Validator
	logger    *zap.Logger
}

// NewUsecase creates a new agent use case
func NewUsecase(
	agentRepo repository.AgentRepository,
	validator *validator.Validator,
	logger *zap.Logger,
) *AgentUsecase {
	return &AgentUsecase{
		agentRepo: agentRepo,
		validator: validator,
		logger:    logger,
	}
}

// CreateAgent creates a new agent
func (uc *AgentUsecase) CreateAgent(ctx context.Context, req *entity.CreateAgentRequest) (*entity.Agent, error) {
	if err := uc.validator.ValidateCreateAgent(req); err != nil {
		return nil, err
	}

	agent := entity.Agent{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
	}

	created, err := uc.agentRepo.Create(ctx, agent)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	ctxzap.Info(ctx, "agent created",
		zap.String("agent_id", created.ID),
		zap.String("name", created.Name),
	)

	return created, nil
}

// ListAgents retrieves agents with pagination
func (uc *AgentUsecase) ListAgents(ctx context.Context, req *entity.ListAgentsRequest) ([]*entity.Agent, error) {
	agents, err := uc.agentRepo.List(ctx, req.Skip, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}

	return agents, nil
}

// GetAgent retrieves an agent by ID
func (uc *AgentUsecase) GetAgent(ctx context.Context, id string) (*entity.Agent, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: invalid agent ID format", entity.ErrInvalidParameter)
	}

	agent, err := uc.agentRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get agent: %w", err)
	}

	return agent, nil
}

// DeleteAgent deletes an agent. Its assignments are removed by cascade.
func (uc *AgentUsecase) DeleteAgent(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid agent ID format", entity.ErrInvalidParameter)
	}

	if err := uc.agentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}

	ctxzap.Info(ctx, "agent deleted", zap.String("agent_id", id))
	return nil
}
