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

// AgentRepository defines the interface for agent persistence
type AgentRepository interface {
	Create(ctx context.Context, agent entity.Agent) (*entity.Agent, error)
	Get(ctx context.Context, id string) (*entity.Agent, error)
	List(ctx context.Context, skip, limit int) ([]*entity.Agent, error)
	Delete(ctx context.Context, id string) error
}

var _ AgentRepository = &AgentPostgres{}

// AgentPostgres implements AgentRepository using PostgreSQL
type AgentPostgres struct {
	db *pgxpool.Pool
}

func NewAgentPostgres(db *pgxpool.Pool) *AgentPostgres {
	return &AgentPostgres{db: db}
}

func (r *AgentPostgres) Create(ctx context.Context, agent entity.Agent) (*entity.Agent, error) {
	agentID, err := parseUUID(agent.ID)
	if err != nil {
		return nil, fmt.Errorf("parse agent ID: %w", err)
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO agents (id, name, description)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, description, created_at`,
		agentID, agent.Name,
		pgtype.Text{String: agent.Description, Valid: agent.Description != ""},
	)

	created, err := scanAgent(row)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	return created, nil
}

func (r *AgentPostgres) Get(ctx context.Context, id string) (*entity.Agent, error) {
	agentID, err := parseUUID(id)
	if err != nil {
		return nil, fmt.Errorf("parse agent ID: %w", err)
	}

	row := r.db.QueryRow(ctx,
		`SELECT id, name, description, created_at FROM agents WHERE id = $1`,
		agentID,
	)

	agent, err := scanAgent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrAgentNotFound
		}
		return nil, fmt.Errorf("get agent: %w", err)
	}

	return agent, nil
}

func (r *AgentPostgres) List(ctx context.Context, skip, limit int) ([]*entity.Agent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, description, created_at
		 FROM agents
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		int32(limit), int32(skip),
	)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	agents := make([]*entity.Agent, 0)
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		agents = append(agents, agent)
	}

	return agents, rows.Err()
}

func (r *AgentPostgres) Delete(ctx context.Context, id string) error {
	agentID, err := parseUUID(id)
	if err != nil {
		return fmt.Errorf("parse agent ID: %w", err)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM agents WHERE id = $1`, agentID)
	if err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return entity.ErrAgentNotFound
	}

	return nil
}

func scanAgent(row pgx.Row) (*entity.Agent, error) {
	var (
		id          pgtype.UUID
		name        string
		description pgtype.Text
		createdAt   pgtype.Timestamptz
	)

	if err := row.Scan(&id, &name, &description, &createdAt); err != nil {
		return nil, err
	}

	return &entity.Agent{
		ID:          uuidString(id),
		Name:        name,
		Description: textString(description),
		CreatedAt:   createdAt.Time,
	}, nil
}
