package entity

// UnifiedAssignmentsResponse is the wire shape of an agent's assignment state.
// Both maps list every owned source of their kind with its attached flag; the
// totals are owned-source counts, not attached counts.
type UnifiedAssignmentsResponse struct {
	RegularAssignments    map[string]bool `json:"regular_assignments"`
	LlamaCloudAssignments map[string]bool `json:"llamacloud_assignments"`
	TotalRegularCount     int             `json:"total_regular_count"`
	TotalLlamaCloudCount  int             `json:"total_llamacloud_count"`
}

// SetUnifiedAssignmentsRequest replaces the agent's full assignment set.
// There is no partial update: the listed IDs become the attached sources and
// everything else is detached.
type SetUnifiedAssignmentsRequest struct {
	RegularEntryIDs []string `json:"regular_entry_ids"`
	LlamaCloudKBIDs []string `json:"llamacloud_kb_ids"`
}
