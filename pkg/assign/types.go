// Package assign reconciles per-agent knowledge source assignments across
// the two source kinds: regular entries stored by the platform and
// LlamaCloud-indexed knowledge bases. The two ID spaces are disjoint, and the
// backend accepts only full-set replacement, so every toggle must carry the
// complete assignment state of BOTH kinds. Reconcile builds that replacement
// request from a fetched snapshot plus one toggle intent; Toggler drives the
// full fetch-reconcile-replace cycle and serializes toggles per agent.
package assign

import "errors"

var (
	// ErrInvalidIntent marks a malformed toggle intent (missing source ID
	// or unknown source kind). Nothing is sent to the server.
	ErrInvalidIntent = errors.New("invalid toggle intent")

	// ErrNotReady marks a reconcile attempted before the first assignment
	// fetch. Callers must not toggle against a state they never loaded.
	ErrNotReady = errors.New("assignments not fetched yet")

	// ErrToggleInFlight marks a toggle rejected because another toggle for
	// the same agent has not completed yet.
	ErrToggleInFlight = errors.New("toggle already in flight for agent")
)

// SourceKind selects which of the two disjoint ID spaces an intent targets.
type SourceKind string

const (
	SourceKindRegular SourceKind = "regular"
	SourceKindCloud   SourceKind = "cloud"
)

func (k SourceKind) valid() bool {
	return k == SourceKindRegular || k == SourceKindCloud
}

// AssignmentSet is an agent's unified assignment state as returned by the
// backend. Each map lists every owned source of its kind; the value marks
// whether the source is currently attached to the agent. The totals count
// owned sources, not attached ones.
type AssignmentSet struct {
	RegularAssignments    map[string]bool `json:"regular_assignments"`
	LlamaCloudAssignments map[string]bool `json:"llamacloud_assignments"`
	TotalRegularCount     int             `json:"total_regular_count"`
	TotalLlamaCloudCount  int             `json:"total_llamacloud_count"`
}

// ToggleIntent is one user-initiated attach or detach of a single source.
type ToggleIntent struct {
	AgentID  string
	SourceID string
	Kind     SourceKind
	Assign   bool
}

// UnifiedAssignmentRequest is the full-replacement body sent to the backend.
// Both slices are always non-nil and sorted ascending.
type UnifiedAssignmentRequest struct {
	RegularEntryIDs []string `json:"regular_entry_ids"`
	LlamaCloudKBIDs []string `json:"llamacloud_kb_ids"`
}
