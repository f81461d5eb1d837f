package assignment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/quorix/kb-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsecase struct {
	getResult *entity.AgentAssignmentSet
	getErr    error
	setResult *entity.AgentAssignmentSet
	setErr    error

	lastAgentID string
	lastRequest *entity.SetUnifiedAssignmentsRequest
}

func (f *fakeUsecase) GetUnified(ctx context.Context, agentID string) (*entity.AgentAssignmentSet, error) {
	f.lastAgentID = agentID
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getResult, nil
}

func (f *fakeUsecase) SetUnified(ctx context.Context, agentID string, req *entity.SetUnifiedAssignmentsRequest) (*entity.AgentAssignmentSet, error) {
	f.lastAgentID = agentID
	f.lastRequest = req
	if f.setErr != nil {
		return nil, f.setErr
	}
	return f.setResult, nil
}

func testRouter(uc AssignmentUsecase) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc))
	return r
}

func TestGetUnifiedHandler(t *testing.T) {
	uc := &fakeUsecase{
		getResult: &entity.AgentAssignmentSet{
			RegularAssignments:    map[string]bool{"f1": true, "f2": false},
			LlamaCloudAssignments: map[string]bool{"kb1": true},
			TotalRegularCount:     2,
			TotalLlamaCloudCount:  1,
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/knowledge-base/agents/agent-1/assignments/unified", nil)
	rec := httptest.NewRecorder()
	testRouter(uc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "agent-1", uc.lastAgentID)

	var resp entity.UnifiedAssignmentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, map[string]bool{"f1": true, "f2": false}, resp.RegularAssignments)
	assert.Equal(t, map[string]bool{"kb1": true}, resp.LlamaCloudAssignments)
	assert.Equal(t, 2, resp.TotalRegularCount)
	assert.Equal(t, 1, resp.TotalLlamaCloudCount)
}

func TestGetUnifiedHandlerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unknown agent", entity.ErrAgentNotFound, http.StatusNotFound},
		{"invalid agent ID", entity.ErrInvalidParameter, http.StatusBadRequest},
		{"repository failure", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUsecase{getErr: tt.err}

			req := httptest.NewRequest(http.MethodGet, "/knowledge-base/agents/agent-1/assignments/unified", nil)
			rec := httptest.NewRecorder()
			testRouter(uc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp entity.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestSetUnifiedHandler(t *testing.T) {
	uc := &fakeUsecase{
		setResult: &entity.AgentAssignmentSet{
			RegularAssignments:    map[string]bool{"f1": true},
			LlamaCloudAssignments: map[string]bool{"kb1": true},
			TotalRegularCount:     1,
			TotalLlamaCloudCount:  1,
		},
	}

	body := `{"regular_entry_ids":["f1"],"llamacloud_kb_ids":["kb1"]}`
	req := httptest.NewRequest(http.MethodPost, "/knowledge-base/agents/agent-1/assignments/unified", strings.NewReader(body))
	rec := httptest.NewRecorder()
	testRouter(uc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.lastRequest)
	assert.Equal(t, []string{"f1"}, uc.lastRequest.RegularEntryIDs)
	assert.Equal(t, []string{"kb1"}, uc.lastRequest.LlamaCloudKBIDs)

	var resp entity.UnifiedAssignmentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.RegularAssignments["f1"])
}

func TestSetUnifiedHandlerBadBody(t *testing.T) {
	uc := &fakeUsecase{}

	req := httptest.NewRequest(http.MethodPost, "/knowledge-base/agents/agent-1/assignments/unified", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	testRouter(uc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.lastRequest)
}

func TestSetUnifiedHandlerUnknownSource(t *testing.T) {
	uc := &fakeUsecase{setErr: entity.ErrEntryNotFound}

	body := `{"regular_entry_ids":["ghost"],"llamacloud_kb_ids":[]}`
	req := httptest.NewRequest(http.MethodPost, "/knowledge-base/agents/agent-1/assignments/unified", strings.NewReader(body))
	rec := httptest.NewRecorder()
	testRouter(uc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
