package assign

import (
	"context"
	"fmt"
	"sync"
)

// Service is the backend surface the toggler drives: fetch the current
// unified assignment set and replace it wholesale.
type Service interface {
	FetchAssignments(ctx context.Context, agentID string) (*AssignmentSet, error)
	ReplaceAssignments(ctx context.Context, agentID string, req *UnifiedAssignmentRequest) (*AssignmentSet, error)
}

// Toggler runs the full toggle cycle: fetch a fresh snapshot, reconcile the
// intent into it, replace the set on the server. Toggles are serialized per
// agent; a second toggle for the same agent while one is in flight is
// rejected with ErrToggleInFlight instead of racing the first. Reconciling
// against a snapshot fetched inside the guarded section means two quick
// toggles on different sources cannot clobber each other's result.
type Toggler struct {
	service Service

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewToggler(service Service) *Toggler {
	return &Toggler{
		service:  service,
		inFlight: make(map[string]struct{}),
	}
}

// Toggle applies one attach/detach intent and returns the resulting
// assignment set as reported by the server.
//
// If the replacement fails after reconciliation, Toggle re-fetches the
// server state and returns it alongside the error, so callers can revert
// to what the server actually holds instead of their optimistic view.
func (t *Toggler) Toggle(ctx context.Context, intent ToggleIntent) (*AssignmentSet, error) {
	if intent.AgentID == "" {
		return nil, fmt.Errorf("%w: empty agent ID", ErrInvalidIntent)
	}
	if intent.SourceID == "" {
		return nil, fmt.Errorf("%w: empty source ID", ErrInvalidIntent)
	}
	if !intent.Kind.valid() {
		return nil, fmt.Errorf("%w: unknown source kind %q", ErrInvalidIntent, intent.Kind)
	}

	if !t.acquire(intent.AgentID) {
		return nil, fmt.Errorf("%w: %s", ErrToggleInFlight, intent.AgentID)
	}
	defer t.release(intent.AgentID)

	current, err := t.service.FetchAssignments(ctx, intent.AgentID)
	if err != nil {
		return nil, fmt.Errorf("fetch assignments: %w", err)
	}

	req, err := Reconcile(current, intent)
	if err != nil {
		return nil, err
	}

	updated, err := t.service.ReplaceAssignments(ctx, intent.AgentID, req)
	if err != nil {
		reverted, fetchErr := t.service.FetchAssignments(ctx, intent.AgentID)
		if fetchErr != nil {
			return nil, fmt.Errorf("replace assignments: %w", err)
		}
		return reverted, fmt.Errorf("replace assignments: %w", err)
	}

	return updated, nil
}

func (t *Toggler) acquire(agentID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, busy := t.inFlight[agentID]; busy {
		return false
	}
	t.inFlight[agentID] = struct{}{}
	return true
}

func (t *Toggler) release(agentID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inFlight, agentID)
}
