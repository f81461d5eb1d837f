package assignment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/quorix/kb-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	agentID = uuid.NewString()
	entryA  = uuid.NewString()
	entryB  = uuid.NewString()
	indexA  = uuid.NewString()
)

type fakeAgentRepo struct {
	agents map[string]*entity.Agent
}

func (f *fakeAgentRepo) Create(ctx context.Context, agent entity.Agent) (*entity.Agent, error) {
	f.agents[agent.ID] = &agent
	return &agent, nil
}

func (f *fakeAgentRepo) Get(ctx context.Context, id string) (*entity.Agent, error) {
	agent, ok := f.agents[id]
	if !ok {
		return nil, entity.ErrAgentNotFound
	}
	return agent, nil
}

func (f *fakeAgentRepo) List(ctx context.Context, skip, limit int) ([]*entity.Agent, error) {
	return nil, nil
}

func (f *fakeAgentRepo) Delete(ctx context.Context, id string) error {
	delete(f.agents, id)
	return nil
}

type fakeEntryRepo struct {
	ids []string
}

func (f *fakeEntryRepo) Create(ctx context.Context, e entity.KnowledgeEntry) (*entity.KnowledgeEntry, error) {
	return &e, nil
}

func (f *fakeEntryRepo) Get(ctx context.Context, id string) (*entity.KnowledgeEntry, error) {
	return nil, entity.ErrEntryNotFound
}

func (f *fakeEntryRepo) List(ctx context.Context, skip, limit int) ([]*entity.KnowledgeEntry, error) {
	return nil, nil
}

func (f *fakeEntryRepo) ListIDs(ctx context.Context) ([]string, error) {
	return f.ids, nil
}

func (f *fakeEntryRepo) FilterMissing(ctx context.Context, ids []string) ([]string, error) {
	return missing(f.ids, ids), nil
}

func (f *fakeEntryRepo) UpdateUsageContext(ctx context.Context, id string, uc entity.UsageContext) (*entity.KnowledgeEntry, error) {
	return nil, entity.ErrEntryNotFound
}

func (f *fakeEntryRepo) SetActive(ctx context.Context, id string, active bool) (*entity.KnowledgeEntry, error) {
	return nil, entity.ErrEntryNotFound
}

func (f *fakeEntryRepo) Delete(ctx context.Context, id string) error {
	return nil
}

type fakeIndexRepo struct {
	ids []string
}

func (f *fakeIndexRepo) Create(ctx context.Context, i entity.CloudIndex) (*entity.CloudIndex, error) {
	return &i, nil
}

func (f *fakeIndexRepo) Get(ctx context.Context, id string) (*entity.CloudIndex, error) {
	return nil, entity.ErrIndexNotFound
}

func (f *fakeIndexRepo) GetByIndexName(ctx context.Context, indexName string) (*entity.CloudIndex, error) {
	return nil, entity.ErrIndexNotFound
}

func (f *fakeIndexRepo) List(ctx context.Context) ([]*entity.CloudIndex, error) {
	return nil, nil
}

func (f *fakeIndexRepo) ListIDs(ctx context.Context) ([]string, error) {
	return f.ids, nil
}

func (f *fakeIndexRepo) FilterMissing(ctx context.Context, ids []string) ([]string, error) {
	return missing(f.ids, ids), nil
}

func (f *fakeIndexRepo) SetActive(ctx context.Context, id string, active bool) (*entity.CloudIndex, error) {
	return nil, entity.ErrIndexNotFound
}

func (f *fakeIndexRepo) Delete(ctx context.Context, id string) error {
	return nil
}

type fakeAssignmentRepo struct {
	regular map[string][]string
	cloud   map[string][]string
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{
		regular: make(map[string][]string),
		cloud:   make(map[string][]string),
	}
}

func (f *fakeAssignmentRepo) GetForAgent(ctx context.Context, agentID string) ([]string, []string, error) {
	return f.regular[agentID], f.cloud[agentID], nil
}

func (f *fakeAssignmentRepo) Replace(ctx context.Context, agentID string, regularIDs, cloudIDs []string) error {
	f.regular[agentID] = regularIDs
	f.cloud[agentID] = cloudIDs
	return nil
}

func missing(known, requested []string) []string {
	knownSet := make(map[string]struct{}, len(known))
	for _, id := range known {
		knownSet[id] = struct{}{}
	}

	var result []string
	for _, id := range requested {
		if _, ok := knownSet[id]; !ok {
			result = append(result, id)
		}
	}
	return result
}

func newTestUsecase() (*AssignmentUsecase, *fakeAssignmentRepo) {
	assignmentRepo := newFakeAssignmentRepo()
	uc := NewUsecase(
		&fakeAgentRepo{agents: map[string]*entity.Agent{agentID: {ID: agentID, Name: "support-bot"}}},
		&fakeEntryRepo{ids: []string{entryA, entryB}},
		&fakeIndexRepo{ids: []string{indexA}},
		assignmentRepo,
		zap.NewNop(),
	)
	return uc, assignmentRepo
}

func TestGetUnifiedCoversAllOwnedSources(t *testing.T) {
	uc, assignmentRepo := newTestUsecase()
	assignmentRepo.regular[agentID] = []string{entryA}

	set, err := uc.GetUnified(context.Background(), agentID)
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{entryA: true, entryB: false}, set.RegularAssignments)
	assert.Equal(t, map[string]bool{indexA: false}, set.LlamaCloudAssignments)
	assert.Equal(t, 2, set.TotalRegularCount)
	assert.Equal(t, 1, set.TotalLlamaCloudCount)
}

func TestGetUnifiedUnknownAgent(t *testing.T) {
	uc, _ := newTestUsecase()

	_, err := uc.GetUnified(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, entity.ErrAgentNotFound)
}

func TestGetUnifiedInvalidAgentID(t *testing.T) {
	uc, _ := newTestUsecase()

	_, err := uc.GetUnified(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestSetUnifiedReplacesBothKinds(t *testing.T) {
	uc, assignmentRepo := newTestUsecase()
	assignmentRepo.regular[agentID] = []string{entryB}

	set, err := uc.SetUnified(context.Background(), agentID, &entity.SetUnifiedAssignmentsRequest{
		RegularEntryIDs: []string{entryA},
		LlamaCloudKBIDs: []string{indexA},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{entryA: true, entryB: false}, set.RegularAssignments)
	assert.Equal(t, map[string]bool{indexA: true}, set.LlamaCloudAssignments)
}

func TestSetUnifiedEmptyListsDetachEverything(t *testing.T) {
	uc, assignmentRepo := newTestUsecase()
	assignmentRepo.regular[agentID] = []string{entryA, entryB}
	assignmentRepo.cloud[agentID] = []string{indexA}

	set, err := uc.SetUnified(context.Background(), agentID, &entity.SetUnifiedAssignmentsRequest{
		RegularEntryIDs: []string{},
		LlamaCloudKBIDs: []string{},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{entryA: false, entryB: false}, set.RegularAssignments)
	assert.Equal(t, map[string]bool{indexA: false}, set.LlamaCloudAssignments)
}

func TestSetUnifiedDeduplicatesIDs(t *testing.T) {
	uc, assignmentRepo := newTestUsecase()

	_, err := uc.SetUnified(context.Background(), agentID, &entity.SetUnifiedAssignmentsRequest{
		RegularEntryIDs: []string{entryA, entryA, entryA},
		LlamaCloudKBIDs: nil,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{entryA}, assignmentRepo.regular[agentID])
}

func TestSetUnifiedRejectsUnknownIDs(t *testing.T) {
	uc, _ := newTestUsecase()

	tests := []struct {
		name    string
		req     *entity.SetUnifiedAssignmentsRequest
		wantErr error
	}{
		{
			name: "unknown entry ID",
			req: &entity.SetUnifiedAssignmentsRequest{
				RegularEntryIDs: []string{uuid.NewString()},
			},
			wantErr: entity.ErrEntryNotFound,
		},
		{
			name: "unknown index ID",
			req: &entity.SetUnifiedAssignmentsRequest{
				LlamaCloudKBIDs: []string{uuid.NewString()},
			},
			wantErr: entity.ErrIndexNotFound,
		},
		{
			name: "malformed entry ID",
			req: &entity.SetUnifiedAssignmentsRequest{
				RegularEntryIDs: []string{"not-a-uuid"},
			},
			wantErr: entity.ErrInvalidParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.SetUnified(context.Background(), agentID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSetUnifiedUnknownAgent(t *testing.T) {
	uc, _ := newTestUsecase()

	_, err := uc.SetUnified(context.Background(), uuid.NewString(), &entity.SetUnifiedAssignmentsRequest{})
	assert.ErrorIs(t, err, entity.ErrAgentNotFound)
}
