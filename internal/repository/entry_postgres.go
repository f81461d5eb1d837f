package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quorix/kb-backend/internal/entity"
)

// EntryRepository defines the interface for knowledge entry persistence
type EntryRepository interface {
	Create(ctx context.Context, entry entity.KnowledgeEntry) (*entity.KnowledgeEntry, error)
	Get(ctx context.Context, id string) (*entity.KnowledgeEntry, error)
	List(ctx context.Context, skip, limit int) ([]*entity.KnowledgeEntry, error)
	ListIDs(ctx context.Context) ([]string, error)
	FilterMissing(ctx context.Context, ids []string) ([]string, error)
	UpdateUsageContext(ctx context.Context, id string, uc entity.UsageContext) (*entity.KnowledgeEntry, error)
	SetActive(ctx context.Context, id string, active bool) (*entity.KnowledgeEntry, error)
	Delete(ctx context.Context, id string) error
}

var _ EntryRepository = &EntryPostgres{}

// EntryPostgres implements EntryRepository using PostgreSQL
type EntryPostgres struct {
	db *pgxpool.Pool
}

func NewEntryPostgres(db *pgxpool.Pool) *EntryPostgres {
	return &EntryPostgres{db: db}
}

const entryColumns = `id, name, content, usage_context, is_active, content_tokens, created_at, updated_at`

func (r *EntryPostgres) Create(ctx context.Context, entry entity.KnowledgeEntry) (*entity.KnowledgeEntry, error) {
	entryID, err := parseUUID(entry.ID)
	if err != nil {
		return nil, fmt.Errorf("parse entry ID: %w", err)
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO knowledge_entries (id, name, content, usage_context, is_active, content_tokens)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+entryColumns,
		entryID, entry.Name, entry.Content, string(entry.UsageContext), entry.IsActive, entry.ContentTokens,
	)

	created, err := scanEntry(row)
	if err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	return created, nil
}

func (r *EntryPostgres) Get(ctx context.Context, id string) (*entity.KnowledgeEntry, error) {
	entryID, err := parseUUID(id)
	if err != nil {
		return nil, fmt.Errorf("parse entry ID: %w", err)
	}

	row := r.db.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM knowledge_entries WHERE id = $1`,
		entryID,
	)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrEntryNotFound
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}

	return entry, nil
}

func (r *EntryPostgres) List(ctx context.Context, skip, limit int) ([]*entity.KnowledgeEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+entryColumns+`
		 FROM knowledge_entries
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		int32(limit), int32(skip),
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*entity.KnowledgeEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *EntryPostgres) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM knowledge_entries`)
	if err != nil {
		return nil, fmt.Errorf("list entry IDs: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// FilterMissing returns the subset of ids that do not exist in storage.
func (r *EntryPostgres) FilterMissing(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id FROM knowledge_entries WHERE id = ANY($1::uuid[])`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("filter entries: %w", err)
	}
	defer rows.Close()

	found, err := scanIDs(rows)
	if err != nil {
		return nil, err
	}

	return missingIDs(ids, found), nil
}

func (r *EntryPostgres) UpdateUsageContext(ctx context.Context, id string, uc entity.UsageContext) (*entity.KnowledgeEntry, error) {
	entryID, err := parseUUID(id)
	if err != nil {
		return nil, fmt.Errorf("parse entry ID: %w", err)
	}

	row := r.db.QueryRow(ctx,
		`UPDATE knowledge_entries
		 SET usage_context = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+entryColumns,
		entryID, string(uc),
	)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrEntryNotFound
		}
		return nil, fmt.Errorf("update usage context: %w", err)
	}

	return entry, nil
}

func (r *EntryPostgres) SetActive(ctx context.Context, id string, active bool) (*entity.KnowledgeEntry, error) {
	entryID, err := parseUUID(id)
	if err != nil {
		return nil, fmt.Errorf("parse entry ID: %w", err)
	}

	row := r.db.QueryRow(ctx,
		`UPDATE knowledge_entries
		 SET is_active = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+entryColumns,
		entryID, active,
	)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrEntryNotFound
		}
		return nil, fmt.Errorf("set entry active: %w", err)
	}

	return entry, nil
}

func (r *EntryPostgres) Delete(ctx context.Context, id string) error {
	entryID, err := parseUUID(id)
	if err != nil {
		return fmt.Errorf("parse entry ID: %w", err)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM knowledge_entries WHERE id = $1`, entryID)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return entity.ErrEntryNotFound
	}

	return nil
}

func scanEntry(row pgx.Row) (*entity.KnowledgeEntry, error) {
	var (
		id            pgtype.UUID
		name          string
		content       string
		usageContext  string
		isActive      bool
		contentTokens int32
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)

	if err := row.Scan(&id, &name, &content, &usageContext, &isActive, &contentTokens, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return &entity.KnowledgeEntry{
		ID:            uuidString(id),
		Name:          name,
		Content:       content,
		UsageContext:  entity.UsageContext(usageContext),
		IsActive:      isActive,
		ContentTokens: int(contentTokens),
		CreatedAt:     createdAt.Time,
		UpdatedAt:     updatedAt.Time,
	}, nil
}

func scanIDs(rows pgx.Rows) ([]string, error) {
	ids := make([]string, 0)
	for rows.Next() {
		var id pgtype.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan ID: %w", err)
		}
		ids = append(ids, uuidString(id))
	}
	return ids, rows.Err()
}

func missingIDs(requested, found []string) []string {
	present := make(map[string]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}

	var missing []string
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
