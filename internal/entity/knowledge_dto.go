package entity

type ExportFormat string

const (
	FormatMarkdown ExportFormat = "markdown"
	FormatDOCX     ExportFormat = "docx"
	FormatPDF      ExportFormat = "pdf"
)

func (f ExportFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

type CreateEntryRequest struct {
	Name         string       `json:"name"`
	Content      string       `json:"content"`
	UsageContext UsageContext `json:"usage_context"`
}

type ListEntriesRequest struct {
	Skip  int
	Limit int
}

func (le *ListEntriesRequest) Normalize() {
	if le.Limit <= 0 {
		le.Limit = 50
	}

	le.Limit = min(le.Limit, 200)
}

type EntryDetail struct {
	ID            string       `json:"entry_id"`
	Name          string       `json:"name"`
	UsageContext  UsageContext `json:"usage_context"`
	IsActive      bool         `json:"is_active"`
	ContentTokens int          `json:"content_tokens"`
	CreatedAt     string       `json:"created_at"`
	UpdatedAt     string       `json:"updated_at"`
}

type ListEntriesResponse struct {
	Entries []*EntryDetail `json:"entries"`
}

type UpdateUsageContextRequest struct {
	UsageContext UsageContext `json:"usage_context"`
}

type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

type RegisterIndexRequest struct {
	Name      string `json:"name"`
	IndexName string `json:"index_name"`
}

type IndexDetail struct {
	ID        string `json:"kb_id"`
	Name      string `json:"name"`
	IndexName string `json:"index_name"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

type ListIndexesResponse struct {
	Indexes []*IndexDetail `json:"indexes"`
}

type DeleteSourceResponse struct {
	Status string `json:"status"`
}

// ExportResult is a rendered knowledge entry ready to be served as a download
type ExportResult struct {
	Data        []byte
	ContentType string
	Filename    string
}
