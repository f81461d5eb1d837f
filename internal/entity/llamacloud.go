package entity

// LlamaCloudPipeline is the subset of the LlamaCloud pipeline object the
// connector needs to validate and describe an external index.
type LlamaCloudPipeline struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProjectID    string `json:"project_id"`
	PipelineType string `json:"pipeline_type"`
}
