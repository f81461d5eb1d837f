package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AssignmentRepository defines the interface for agent assignment persistence.
// The assignment set is always written as a whole: Replace swaps both mappings
// in one transaction so a reader never observes a half-applied set.
type AssignmentRepository interface {
	GetForAgent(ctx context.Context, agentID string) (regularIDs, cloudIDs []string, err error)
	Replace(ctx context.Context, agentID string, regularIDs, cloudIDs []string) error
}

var _ AssignmentRepository = &AssignmentPostgres{}

// AssignmentPostgres implements AssignmentRepository using PostgreSQL
type AssignmentPostgres struct {
	db *pgxpool.Pool
}

func NewAssignmentPostgres(db *pgxpool.Pool) *AssignmentPostgres {
	return &AssignmentPostgres{db: db}
}

func (r *AssignmentPostgres) GetForAgent(ctx context.Context, agentID string) ([]string, []string, error) {
	aid, err := parseUUID(agentID)
	if err != nil {
		return nil, nil, fmt.Errorf("parse agent ID: %w", err)
	}

	entryRows, err := r.db.Query(ctx,
		`SELECT entry_id FROM agent_entry_assignments WHERE agent_id = $1`,
		aid,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("get entry assignments: %w", err)
	}
	regularIDs, err := scanIDs(entryRows)
	entryRows.Close()
	if err != nil {
		return nil, nil, err
	}

	indexRows, err := r.db.Query(ctx,
		`SELECT kb_id FROM agent_index_assignments WHERE agent_id = $1`,
		aid,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("get index assignments: %w", err)
	}
	cloudIDs, err := scanIDs(indexRows)
	indexRows.Close()
	if err != nil {
		return nil, nil, err
	}

	return regularIDs, cloudIDs, nil
}

func (r *AssignmentPostgres) Replace(ctx context.Context, agentID string, regularIDs, cloudIDs []string) error {
	aid, err := parseUUID(agentID)
	if err != nil {
		return fmt.Errorf("parse agent ID: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM agent_entry_assignments WHERE agent_id = $1`, aid); err != nil {
		return fmt.Errorf("clear entry assignments: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM agent_index_assignments WHERE agent_id = $1`, aid); err != nil {
		return fmt.Errorf("clear index assignments: %w", err)
	}

	if len(regularIDs) > 0 {
		if _, err := tx.Exec(ctx,
			`INSERT INTO agent_entry_assignments (agent_id, entry_id)
			 SELECT $1, unnest($2::uuid[])`,
			aid, regularIDs,
		); err != nil {
			return fmt.Errorf("insert entry assignments: %w", err)
		}
	}

	if len(cloudIDs) > 0 {
		if _, err := tx.Exec(ctx,
			`INSERT INTO agent_index_assignments (agent_id, kb_id)
			 SELECT $1, unnest($2::uuid[])`,
			aid, cloudIDs,
		); err != nil {
			return fmt.Errorf("insert index assignments: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
