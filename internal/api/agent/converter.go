package agent

import (
	"time"

	"github.com/quorix/kb-backend/internal/entity"
)

func toAgentSummary(a *entity.Agent) *entity.AgentSummary {
	return &entity.AgentSummary{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
	}
}

func toAgentDetail(a *entity.Agent) *entity.AgentDetailResponse {
	return &entity.AgentDetailResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}
}
