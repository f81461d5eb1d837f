package assignment

import (
	"context"

	"github.com/quorix/kb-backend/internal/entity"
)

type AssignmentUsecase interface {
	GetUnified(ctx context.Context, agentID string) (*entity.AgentAssignmentSet, error)
	SetUnified(ctx context.Context, agentID string, req *entity.SetUnifiedAssignmentsRequest) (*entity.AgentAssignmentSet, error)
}
