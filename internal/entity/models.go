package entity

import (
	"fmt"
	"time"
)

type UsageContext string

// Usage context controls when an entry's content is offered to the agent
const (
	UsageContextAlways     UsageContext = "always"     // Injected into every conversation
	UsageContextOnRequest  UsageContext = "on_request" // Fetched only when the agent asks for it
	UsageContextContextual UsageContext = "contextual" // Retrieved by relevance to the current turn
)

func (uc UsageContext) Validate() error {
	switch uc {
	case UsageContextAlways, UsageContextOnRequest, UsageContextContextual:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidUsageContext, uc)
	}
}

type SourceKind string

// The two knowledge source ID spaces. They are disjoint by construction:
// regular entries and cloud indexes live in separate tables with separate IDs.
const (
	SourceKindRegular SourceKind = "regular"
	SourceKindCloud   SourceKind = "cloud"
)

type Agent struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// KnowledgeEntry is a file- or folder-derived text chunk stored and indexed
// by the platform itself.
type KnowledgeEntry struct {
	ID            string       `json:"entry_id"`
	Name          string       `json:"name"`
	Content       string       `json:"-"`
	UsageContext  UsageContext `json:"usage_context"`
	IsActive      bool         `json:"is_active"`
	ContentTokens int          `json:"content_tokens"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// CloudIndex references an externally hosted, pre-indexed LlamaCloud
// knowledge base by name. Content lives on the LlamaCloud side.
type CloudIndex struct {
	ID        string    `json:"kb_id"`
	Name      string    `json:"name"`
	IndexName string    `json:"index_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// AgentAssignmentSet is the per-agent unified assignment state. Each mapping
// covers every source the account owns; the value marks whether the source is
// currently attached to the agent. The key sets of the two mappings never
// intersect.
type AgentAssignmentSet struct {
	RegularAssignments    map[string]bool
	LlamaCloudAssignments map[string]bool
	TotalRegularCount     int
	TotalLlamaCloudCount  int
}
