package assign

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService records calls and plays back configured responses.
type fakeService struct {
	mu sync.Mutex

	fetchResult  *AssignmentSet
	fetchErr     error
	replaceErr   error
	replacedWith *UnifiedAssignmentRequest

	// blockReplace, when non-nil, stalls the first Replace call until the
	// test closes it. replaceEntered is closed when that call is reached.
	blockReplace   chan struct{}
	replaceEntered chan struct{}
}

func (f *fakeService) FetchAssignments(ctx context.Context, agentID string) (*AssignmentSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.fetchResult, nil
}

func (f *fakeService) ReplaceAssignments(ctx context.Context, agentID string, req *UnifiedAssignmentRequest) (*AssignmentSet, error) {
	f.mu.Lock()
	entered := f.replaceEntered
	block := f.blockReplace
	f.replaceEntered = nil
	f.blockReplace = nil
	f.replacedWith = req
	replaceErr := f.replaceErr
	f.mu.Unlock()

	if entered != nil {
		close(entered)
	}
	if block != nil {
		<-block
	}
	if replaceErr != nil {
		return nil, replaceErr
	}

	// Echo back the request as the new server state, the way the real
	// endpoint returns the post-replacement snapshot.
	set := &AssignmentSet{
		RegularAssignments:    make(map[string]bool, len(req.RegularEntryIDs)),
		LlamaCloudAssignments: make(map[string]bool, len(req.LlamaCloudKBIDs)),
	}
	for _, id := range req.RegularEntryIDs {
		set.RegularAssignments[id] = true
	}
	for _, id := range req.LlamaCloudKBIDs {
		set.LlamaCloudAssignments[id] = true
	}
	return set, nil
}

func (f *fakeService) lastRequest() *UnifiedAssignmentRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.replacedWith
}

func TestTogglerAttach(t *testing.T) {
	svc := &fakeService{
		fetchResult: &AssignmentSet{
			RegularAssignments:    map[string]bool{"f1": true, "f2": false},
			LlamaCloudAssignments: map[string]bool{"kb1": true},
		},
	}
	toggler := NewToggler(svc)

	set, err := toggler.Toggle(context.Background(), ToggleIntent{
		AgentID:  "agent-1",
		SourceID: "f2",
		Kind:     SourceKindRegular,
		Assign:   true,
	})
	require.NoError(t, err)

	require.NotNil(t, svc.lastRequest())
	assert.Equal(t, []string{"f1", "f2"}, svc.lastRequest().RegularEntryIDs)
	assert.Equal(t, []string{"kb1"}, svc.lastRequest().LlamaCloudKBIDs)

	assert.True(t, set.RegularAssignments["f2"])
	assert.True(t, set.LlamaCloudAssignments["kb1"])
}

func TestTogglerInvalidIntent(t *testing.T) {
	toggler := NewToggler(&fakeService{})

	tests := []struct {
		name   string
		intent ToggleIntent
	}{
		{"empty agent ID", ToggleIntent{SourceID: "f1", Kind: SourceKindRegular}},
		{"empty source ID", ToggleIntent{AgentID: "agent-1", Kind: SourceKindRegular}},
		{"unknown kind", ToggleIntent{AgentID: "agent-1", SourceID: "f1", Kind: SourceKind("bogus")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := toggler.Toggle(context.Background(), tt.intent)
			assert.ErrorIs(t, err, ErrInvalidIntent)
			assert.Nil(t, set)
		})
	}
}

func TestTogglerFetchFailure(t *testing.T) {
	svc := &fakeService{fetchErr: errors.New("boom")}
	toggler := NewToggler(svc)

	set, err := toggler.Toggle(context.Background(), ToggleIntent{
		AgentID:  "agent-1",
		SourceID: "f1",
		Kind:     SourceKindRegular,
		Assign:   true,
	})
	require.Error(t, err)
	assert.Nil(t, set)
	assert.Nil(t, svc.lastRequest(), "nothing should be sent when fetch fails")
}

func TestTogglerNotReady(t *testing.T) {
	// Fetch succeeding with a nil set means the state was never loaded.
	svc := &fakeService{fetchResult: nil}
	toggler := NewToggler(svc)

	set, err := toggler.Toggle(context.Background(), ToggleIntent{
		AgentID:  "agent-1",
		SourceID: "f1",
		Kind:     SourceKindRegular,
		Assign:   true,
	})
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Nil(t, set)
}

func TestTogglerReplaceFailureReturnsServerState(t *testing.T) {
	serverState := &AssignmentSet{
		RegularAssignments:    map[string]bool{"f1": true},
		LlamaCloudAssignments: map[string]bool{},
	}
	svc := &fakeService{
		fetchResult: serverState,
		replaceErr:  errors.New("replace failed"),
	}
	toggler := NewToggler(svc)

	set, err := toggler.Toggle(context.Background(), ToggleIntent{
		AgentID:  "agent-1",
		SourceID: "f2",
		Kind:     SourceKindRegular,
		Assign:   true,
	})
	require.Error(t, err)

	// Callers revert to the state the server actually holds.
	require.NotNil(t, set)
	assert.Equal(t, serverState.RegularAssignments, set.RegularAssignments)
}

func TestTogglerSerializesPerAgent(t *testing.T) {
	block := make(chan struct{})
	entered := make(chan struct{})
	svc := &fakeService{
		fetchResult: &AssignmentSet{
			RegularAssignments:    map[string]bool{"f1": false},
			LlamaCloudAssignments: map[string]bool{},
		},
		blockReplace:   block,
		replaceEntered: entered,
	}
	toggler := NewToggler(svc)

	intent := ToggleIntent{
		AgentID:  "agent-1",
		SourceID: "f1",
		Kind:     SourceKindRegular,
		Assign:   true,
	}

	firstDone := make(chan error, 1)
	go func() {
		_, err := toggler.Toggle(context.Background(), intent)
		firstDone <- err
	}()

	// Wait until the first toggle holds the agent guard inside Replace.
	<-entered

	_, err := toggler.Toggle(context.Background(), intent)
	assert.ErrorIs(t, err, ErrToggleInFlight)

	// A different agent is not blocked by agent-1's in-flight toggle.
	otherIntent := intent
	otherIntent.AgentID = "agent-2"
	_, err = toggler.Toggle(context.Background(), otherIntent)
	assert.NoError(t, err)

	close(block)
	require.NoError(t, <-firstDone)

	// Once the first toggle finished, the agent can toggle again.
	_, err = toggler.Toggle(context.Background(), intent)
	assert.NoError(t, err)
}
