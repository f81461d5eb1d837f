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

// CloudIndexRepository defines the interface for LlamaCloud index persistence
type CloudIndexRepository interface {
	Create(ctx context.Context, index entity.CloudIndex) (*entity.CloudIndex, error)
	Get(ctx context.Context, id string) (*entity.CloudIndex, error)
	GetByIndexName(ctx context.Context, indexName string) (*entity.CloudIndex, error)
	List(ctx context.Context) ([]*entity.CloudIndex, error)
	ListIDs(ctx context.Context) ([]string, error)
	FilterMissing(ctx context.Context, ids []string) ([]string, error)
	SetActive(ctx context.Context, id string, active bool) (*entity.CloudIndex, error)
	Delete(ctx context.Context, id string) error
}

var _ CloudIndexRepository = &CloudIndexPostgres{}

// CloudIndexPostgres implements CloudIndexRepository using PostgreSQL
type CloudIndexPostgres struct {
	db *pgxpool.Pool
}

func NewCloudIndexPostgres(db *pgxpool.Pool) *CloudIndexPostgres {
	return &CloudIndexPostgres{db: db}
}

const indexColumns = `id, name, index_name, is_active, created_at`

func (r *CloudIndexPostgres) Create(ctx context.Context, index entity.CloudIndex) (*entity.CloudIndex, error) {
	indexID, err := parseUUID(index.ID)
	if err != nil {
		return nil, fmt.Errorf("parse index ID: %w", err)
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO llamacloud_indexes (id, name, index_name, is_active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+indexColumns,
		indexID, index.Name, index.IndexName, index.IsActive,
	)

	created, err := scanIndex(row)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return created, nil
}

func (r *CloudIndexPostgres) Get(ctx context.Context, id string) (*entity.CloudIndex, error) {
	indexID, err := parseUUID(id)
	if err != nil {
		return nil, fmt.Errorf("parse index ID: %w", err)
	}

	row := r.db.QueryRow(ctx,
		`SELECT `+indexColumns+` FROM llamacloud_indexes WHERE id = $1`,
		indexID,
	)

	index, err := scanIndex(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrIndexNotFound
		}
		return nil, fmt.Errorf("get index: %w", err)
	}

	return index, nil
}

func (r *CloudIndexPostgres) GetByIndexName(ctx context.Context, indexName string) (*entity.CloudIndex, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+indexColumns+` FROM llamacloud_indexes WHERE index_name = $1`,
		indexName,
	)

	index, err := scanIndex(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrIndexNotFound
		}
		return nil, fmt.Errorf("get index by name: %w", err)
	}

	return index, nil
}

func (r *CloudIndexPostgres) List(ctx context.Context) ([]*entity.CloudIndex, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+indexColumns+` FROM llamacloud_indexes ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list indexes: %w", err)
	}
	defer rows.Close()

	indexes := make([]*entity.CloudIndex, 0)
	for rows.Next() {
		index, err := scanIndex(rows)
		if err != nil {
			return nil, fmt.Errorf("scan index: %w", err)
		}
		indexes = append(indexes, index)
	}

	return indexes, rows.Err()
}

func (r *CloudIndexPostgres) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM llamacloud_indexes`)
	if err != nil {
		return nil, fmt.Errorf("list index IDs: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// FilterMissing returns the subset of ids that do not exist in storage.
func (r *CloudIndexPostgres) FilterMissing(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id FROM llamacloud_indexes WHERE id = ANY($1::uuid[])`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("filter indexes: %w", err)
	}
	defer rows.Close()

	found, err := scanIDs(rows)
	if err != nil {
		return nil, err
	}

	return missingIDs(ids, found), nil
}

func (r *CloudIndexPostgres) SetActive(ctx context.Context, id string, active bool) (*entity.CloudIndex, error) {
	indexID, err := parseUUID(id)
	if err != nil {
		return nil, fmt.Errorf("parse index ID: %w", err)
	}

	row := r.db.QueryRow(ctx,
		`UPDATE llamacloud_indexes
		 SET is_active = $2
		 WHERE id = $1
		 RETURNING `+indexColumns,
		indexID, active,
	)

	index, err := scanIndex(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrIndexNotFound
		}
		return nil, fmt.Errorf("set index active: %w", err)
	}

	return index, nil
}

func (r *CloudIndexPostgres) Delete(ctx context.Context, id string) error {
	indexID, err := parseUUID(id)
	if err != nil {
		return fmt.Errorf("parse index ID: %w", err)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM llamacloud_indexes WHERE id = $1`, indexID)
	if err != nil {
		return fmt.Errorf("delete index: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return entity.ErrIndexNotFound
	}

	return nil
}

func scanIndex(row pgx.Row) (*entity.CloudIndex, error) {
	var (
		id        pgtype.UUID
		name      string
		indexName string
		isActive  bool
		createdAt pgtype.Timestamptz
	)

	if err := row.Scan(&id, &name, &indexName, &isActive, &createdAt); err != nil {
		return nil, err
	}

	return &entity.CloudIndex{
		ID:        uuidString(id),
		Name:      name,
		IndexName: indexName,
		IsActive:  isActive,
		CreatedAt: createdAt.Time,
	}, nil
}
