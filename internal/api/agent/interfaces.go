package agent

import (
	"context"

	"github.com/quorix/kb-backend/internal/entity"
)

type AgentUsecase interface {
	CreateAgent(ctx context.Context, req *entity.CreateAgentRequest) (*entity.Agent, error)
	ListAgents(ctx context.Context, req *entity.ListAgentsRequest) ([]*entity.Agent, error)
	GetAgent(ctx context.Context, id string) (*entity.Agent, error)
	DeleteAgent(ctx context.Context, id string) error
}
