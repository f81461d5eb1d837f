package knowledge

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/quorix/kb-backend/internal/config"
	"github.com/quorix/kb-backend/internal/entity"
	"github.com/quorix/kb-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memEntryRepo struct {
	entries map[string]*entity.KnowledgeEntry
}

func newMemEntryRepo() *memEntryRepo {
	return &memEntryRepo{entries: make(map[string]*entity.KnowledgeEntry)}
}

func (m *memEntryRepo) Create(ctx context.Context, entry entity.KnowledgeEntry) (*entity.KnowledgeEntry, error) {
	m.entries[entry.ID] = &entry
	return &entry, nil
}

func (m *memEntryRepo) Get(ctx context.Context, id string) (*entity.KnowledgeEntry, error) {
	entry, ok := m.entries[id]
	if !ok {
		return nil, entity.ErrEntryNotFound
	}
	return entry, nil
}

func (m *memEntryRepo) List(ctx context.Context, skip, limit int) ([]*entity.KnowledgeEntry, error) {
	var result []*entity.KnowledgeEntry
	for _, e := range m.entries {
		result = append(result, e)
	}
	return result, nil
}

func (m *memEntryRepo) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	for id := range m.entries {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memEntryRepo) FilterMissing(ctx context.Context, ids []string) ([]string, error) {
	var missing []string
	for _, id := range ids {
		if _, ok := m.entries[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (m *memEntryRepo) UpdateUsageContext(ctx context.Context, id string, uc entity.UsageContext) (*entity.KnowledgeEntry, error) {
	entry, ok := m.entries[id]
	if !ok {
		return nil, entity.ErrEntryNotFound
	}
	entry.UsageContext = uc
	return entry, nil
}

func (m *memEntryRepo) SetActive(ctx context.Context, id string, active bool) (*entity.KnowledgeEntry, error) {
	entry, ok := m.entries[id]
	if !ok {
		return nil, entity.ErrEntryNotFound
	}
	entry.IsActive = active
	return entry, nil
}

func (m *memEntryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.entries[id]; !ok {
		return entity.ErrEntryNotFound
	}
	delete(m.entries, id)
	return nil
}

type memIndexRepo struct {
	indexes map[string]*entity.CloudIndex
}

func newMemIndexRepo() *memIndexRepo {
	return &memIndexRepo{indexes: make(map[string]*entity.CloudIndex)}
}

func (m *memIndexRepo) Create(ctx context.Context, index entity.CloudIndex) (*entity.CloudIndex, error) {
	m.indexes[index.ID] = &index
	return &index, nil
}

func (m *memIndexRepo) Get(ctx context.Context, id string) (*entity.CloudIndex, error) {
	index, ok := m.indexes[id]
	if !ok {
		return nil, entity.ErrIndexNotFound
	}
	return index, nil
}

func (m *memIndexRepo) GetByIndexName(ctx context.Context, indexName string) (*entity.CloudIndex, error) {
	for _, index := range m.indexes {
		if index.IndexName == indexName {
			return index, nil
		}
	}
	return nil, entity.ErrIndexNotFound
}

func (m *memIndexRepo) List(ctx context.Context) ([]*entity.CloudIndex, error) {
	var result []*entity.CloudIndex
	for _, i := range m.indexes {
		result = append(result, i)
	}
	return result, nil
}

func (m *memIndexRepo) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	for id := range m.indexes {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memIndexRepo) FilterMissing(ctx context.Context, ids []string) ([]string, error) {
	var missing []string
	for _, id := range ids {
		if _, ok := m.indexes[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (m *memIndexRepo) SetActive(ctx context.Context, id string, active bool) (*entity.CloudIndex, error) {
	index, ok := m.indexes[id]
	if !ok {
		return nil, entity.ErrIndexNotFound
	}
	index.IsActive = active
	return index, nil
}

func (m *memIndexRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.indexes[id]; !ok {
		return entity.ErrIndexNotFound
	}
	delete(m.indexes, id)
	return nil
}

type fakeLlamaCloud struct {
	pipelines map[string]*entity.LlamaCloudPipeline
	err       error
}

func (f *fakeLlamaCloud) LookupPipeline(ctx context.Context, indexName string) (*entity.LlamaCloudPipeline, error) {
	if f.err != nil {
		return nil, f.err
	}
	pipeline, ok := f.pipelines[indexName]
	if !ok {
		return nil, entity.ErrIndexUnavailable
	}
	return pipeline, nil
}

func newTestUsecase(llamaCloud LlamaCloudConnector) (*KnowledgeUsecase, *memEntryRepo, *memIndexRepo) {
	entryRepo := newMemEntryRepo()
	indexRepo := newMemIndexRepo()
	v := validator.NewKnowledgeValidator(config.KnowledgeConfig{
		MaxContentBytes: 1 << 20,
		MaxNameLength:   255,
	})
	uc := NewUsecase(entryRepo, indexRepo, v, llamaCloud, zap.NewNop())
	return uc, entryRepo, indexRepo
}

func TestCreateEntryDefaults(t *testing.T) {
	uc, _, _ := newTestUsecase(&fakeLlamaCloud{})

	entry, err := uc.CreateEntry(context.Background(), &entity.CreateEntryRequest{
		Name:    "onboarding",
		Content: "step one",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, entity.UsageContextContextual, entry.UsageContext)
	assert.True(t, entry.IsActive)
	assert.Greater(t, entry.ContentTokens, 0)
}

func TestCreateEntryValidation(t *testing.T) {
	uc, _, _ := newTestUsecase(&fakeLlamaCloud{})

	_, err := uc.CreateEntry(context.Background(), &entity.CreateEntryRequest{Content: "no name"})
	assert.ErrorIs(t, err, entity.ErrMissingField)
}

func TestUpdateEntryUsageContext(t *testing.T) {
	uc, _, _ := newTestUsecase(&fakeLlamaCloud{})

	entry, err := uc.CreateEntry(context.Background(), &entity.CreateEntryRequest{
		Name:    "onboarding",
		Content: "step one",
	})
	require.NoError(t, err)

	updated, err := uc.UpdateEntryUsageContext(context.Background(), entry.ID, entity.UsageContextAlways)
	require.NoError(t, err)
	assert.Equal(t, entity.UsageContextAlways, updated.UsageContext)

	_, err = uc.UpdateEntryUsageContext(context.Background(), entry.ID, "whenever")
	assert.ErrorIs(t, err, entity.ErrInvalidUsageContext)

	_, err = uc.UpdateEntryUsageContext(context.Background(), "not-a-uuid", entity.UsageContextAlways)
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestDeleteEntry(t *testing.T) {
	uc, entryRepo, _ := newTestUsecase(&fakeLlamaCloud{})

	entry, err := uc.CreateEntry(context.Background(), &entity.CreateEntryRequest{
		Name:    "scratch",
		Content: "temp",
	})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteEntry(context.Background(), entry.ID))
	assert.Empty(t, entryRepo.entries)

	err = uc.DeleteEntry(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, entity.ErrEntryNotFound)
}

func TestExportEntry(t *testing.T) {
	uc, _, _ := newTestUsecase(&fakeLlamaCloud{})

	entry, err := uc.CreateEntry(context.Background(), &entity.CreateEntryRequest{
		Name:    "release notes",
		Content: "everything changed",
	})
	require.NoError(t, err)

	result, err := uc.ExportEntry(context.Background(), entry.ID, entity.FormatMarkdown)
	require.NoError(t, err)

	assert.Equal(t, "release_notes.md", result.Filename)
	assert.Contains(t, string(result.Data), "# release notes")
	assert.Equal(t, "text/markdown; charset=utf-8", result.ContentType)

	_, err = uc.ExportEntry(context.Background(), entry.ID, entity.ExportFormat("xlsx"))
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestRegisterIndex(t *testing.T) {
	llamaCloud := &fakeLlamaCloud{
		pipelines: map[string]*entity.LlamaCloudPipeline{
			"docs-v2": {ID: "pipe-1", Name: "docs-v2"},
		},
	}
	uc, _, indexRepo := newTestUsecase(llamaCloud)

	index, err := uc.RegisterIndex(context.Background(), &entity.RegisterIndexRequest{
		Name:      "Product Docs",
		IndexName: "docs-v2",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, index.ID)
	assert.True(t, index.IsActive)
	assert.Len(t, indexRepo.indexes, 1)
}

func TestRegisterIndexDuplicateName(t *testing.T) {
	llamaCloud := &fakeLlamaCloud{
		pipelines: map[string]*entity.LlamaCloudPipeline{
			"docs-v2": {ID: "pipe-1", Name: "docs-v2"},
		},
	}
	uc, _, _ := newTestUsecase(llamaCloud)

	_, err := uc.RegisterIndex(context.Background(), &entity.RegisterIndexRequest{
		Name:      "Product Docs",
		IndexName: "docs-v2",
	})
	require.NoError(t, err)

	_, err = uc.RegisterIndex(context.Background(), &entity.RegisterIndexRequest{
		Name:      "Product Docs Again",
		IndexName: "docs-v2",
	})
	assert.ErrorIs(t, err, entity.ErrIndexAlreadyExists)
}

func TestRegisterIndexUnknownPipeline(t *testing.T) {
	uc, _, indexRepo := newTestUsecase(&fakeLlamaCloud{pipelines: map[string]*entity.LlamaCloudPipeline{}})

	_, err := uc.RegisterIndex(context.Background(), &entity.RegisterIndexRequest{
		Name:      "Ghost",
		IndexName: "missing",
	})
	assert.ErrorIs(t, err, entity.ErrIndexUnavailable)
	assert.Empty(t, indexRepo.indexes, "nothing is registered when validation fails")
}

func TestSetIndexActive(t *testing.T) {
	llamaCloud := &fakeLlamaCloud{
		pipelines: map[string]*entity.LlamaCloudPipeline{
			"docs-v2": {ID: "pipe-1", Name: "docs-v2"},
		},
	}
	uc, _, _ := newTestUsecase(llamaCloud)

	index, err := uc.RegisterIndex(context.Background(), &entity.RegisterIndexRequest{
		Name:      "Product Docs",
		IndexName: "docs-v2",
	})
	require.NoError(t, err)

	updated, err := uc.SetIndexActive(context.Background(), index.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}
