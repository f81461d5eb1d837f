package assignment

import (
	"github.com/quorix/kb-backend/internal/entity"
)

func toUnifiedResponse(set *entity.AgentAssignmentSet) *entity.UnifiedAssignmentsResponse {
	return &entity.UnifiedAssignmentsResponse{
		RegularAssignments:    set.RegularAssignments,
		LlamaCloudAssignments: set.LlamaCloudAssignments,
		TotalRegularCount:     set.TotalRegularCount,
		TotalLlamaCloudCount:  set.TotalLlamaCloudCount,
	}
}
