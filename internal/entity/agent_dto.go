package entity

type CreateAgentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ListAgentsRequest struct {
	Skip  int
	Limit int
}

func (la *ListAgentsRequest) Normalize() {
	if la.Limit <= 0 {
		la.Limit = 10
	}

	la.Limit = min(la.Limit, 100)
}

type AgentSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ListAgentsResponse struct {
	Agents []*AgentSummary `json:"agents"`
}

type AgentDetailResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

type DeleteAgentResponse struct {
	Status string `json:"status"`
}
