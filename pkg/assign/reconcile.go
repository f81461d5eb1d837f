package assign

import (
	"fmt"
	"sort"
)

// Reconcile merges one toggle intent into a fetched assignment snapshot and
// returns the full-replacement request to send to the backend. It is a pure
// transform: current is never mutated, and the result carries the complete
// attached-ID sets of both source kinds so a regular toggle can never drop
// cloud assignments or vice versa.
//
// The intent's AgentID is not inspected here; agent scoping belongs to the
// caller that fetched the snapshot.
func Reconcile(current *AssignmentSet, intent ToggleIntent) (*UnifiedAssignmentRequest, error) {
	if current == nil {
		return nil, ErrNotReady
	}

	if intent.SourceID == "" {
		return nil, fmt.Errorf("%w: empty source ID", ErrInvalidIntent)
	}

	if !intent.Kind.valid() {
		return nil, fmt.Errorf("%w: unknown source kind %q", ErrInvalidIntent, intent.Kind)
	}

	regular := attachedIDs(current.RegularAssignments)
	cloud := attachedIDs(current.LlamaCloudAssignments)

	switch intent.Kind {
	case SourceKindRegular:
		regular = applyToggle(regular, intent.SourceID, intent.Assign)
	case SourceKindCloud:
		cloud = applyToggle(cloud, intent.SourceID, intent.Assign)
	}

	return &UnifiedAssignmentRequest{
		RegularEntryIDs: sortedIDs(regular),
		LlamaCloudKBIDs: sortedIDs(cloud),
	}, nil
}

// attachedIDs extracts the set of attached sources. A map entry with a false
// value is an owned but detached source and does not belong in the request.
func attachedIDs(assignments map[string]bool) map[string]struct{} {
	ids := make(map[string]struct{}, len(assignments))
	for id, attached := range assignments {
		if attached {
			ids[id] = struct{}{}
		}
	}
	return ids
}

func applyToggle(ids map[string]struct{}, sourceID string, assign bool) map[string]struct{} {
	if assign {
		ids[sourceID] = struct{}{}
	} else {
		delete(ids, sourceID)
	}
	return ids
}

func sortedIDs(ids map[string]struct{}) []string {
	result := make([]string, 0, len(ids))
	for id := range ids {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}
