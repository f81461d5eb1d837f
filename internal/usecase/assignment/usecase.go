package assignment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/quorix/kb-backend/internal/entity"
	"github.com/quorix/kb-backend/internal/repository"
	"go.uber.org/zap"
)

// AssignmentUsecase owns the unified assignment set for each agent. The set
// is the single source of truth: reads list every owned source with its
// attached flag, writes replace the whole set atomically.
type AssignmentUsecase struct {
	agentRepo      repository.AgentRepository
	entryRepo      repository.EntryRepository
	indexRepo      repository.CloudIndexRepository
	assignmentRepo repository.AssignmentRepository
	logger         *zap.Logger
}

// NewUsecase creates a new assignment use case
func NewUsecase(
	agentRepo repository.AgentRepository,
	entryRepo repository.EntryRepository,
	indexRepo repository.CloudIndexRepository,
	assignmentRepo repository.AssignmentRepository,
	logger *zap.Logger,
) *AssignmentUsecase {
	return &AssignmentUsecase{
		agentRepo:      agentRepo,
		entryRepo:      entryRepo,
		indexRepo:      indexRepo,
		assignmentRepo: assignmentRepo,
		logger:         logger,
	}
}

// GetUnified returns the agent's unified assignment state: every owned
// regular entry and cloud index, each flagged with whether it is currently
// attached to the agent.
func (uc *AssignmentUsecase) GetUnified(ctx context.Context, agentID string) (*entity.AgentAssignmentSet, error) {
	if _, err := uuid.Parse(agentID); err != nil {
		return nil, fmt.Errorf("%w: invalid agent ID format", entity.ErrInvalidParameter)
	}

	if _, err := uc.agentRepo.Get(ctx, agentID); err != nil {
		return nil, err
	}

	entryIDs, err := uc.entryRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entry IDs: %w", err)
	}

	indexIDs, err := uc.indexRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list index IDs: %w", err)
	}

	assignedRegular, assignedCloud, err := uc.assignmentRepo.GetForAgent(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("get assignments: %w", err)
	}

	return &entity.AgentAssignmentSet{
		RegularAssignments:    membershipMap(entryIDs, assignedRegular),
		LlamaCloudAssignments: membershipMap(indexIDs, assignedCloud),
		TotalRegularCount:     len(entryIDs),
		TotalLlamaCloudCount:  len(indexIDs),
	}, nil
}

// SetUnified replaces the agent's full assignment set with the request's ID
// lists. Every ID must reference an owned source; the replacement covers both
// source kinds in one transaction, so a toggle intent reconciled against a
// fresh snapshot never clobbers the other kind.
func (uc *AssignmentUsecase) SetUnified(ctx context.Context, agentID string, req *entity.SetUnifiedAssignmentsRequest) (*entity.AgentAssignmentSet, error) {
	if _, err := uuid.Parse(agentID); err != nil {
		return nil, fmt.Errorf("%w: invalid agent ID format", entity.ErrInvalidParameter)
	}

	if _, err := uc.agentRepo.Get(ctx, agentID); err != nil {
		return nil, err
	}

	regularIDs, err := normalizeIDs(req.RegularEntryIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: regular_entry_ids: %v", entity.ErrInvalidParameter, err)
	}

	cloudIDs, err := normalizeIDs(req.LlamaCloudKBIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: llamacloud_kb_ids: %v", entity.ErrInvalidParameter, err)
	}

	missing, err := uc.entryRepo.FilterMissing(ctx, regularIDs)
	if err != nil {
		return nil, fmt.Errorf("check entry IDs: %w", err)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrEntryNotFound, strings.Join(missing, ", "))
	}

	missing, err = uc.indexRepo.FilterMissing(ctx, cloudIDs)
	if err != nil {
		return nil, fmt.Errorf("check index IDs: %w", err)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrIndexNotFound, strings.Join(missing, ", "))
	}

	if err := uc.assignmentRepo.Replace(ctx, agentID, regularIDs, cloudIDs); err != nil {
		return nil, fmt.Errorf("replace assignments: %w", err)
	}

	ctxzap.Info(ctx, "assignments replaced",
		zap.String("agent_id", agentID),
		zap.Int("regular_count", len(regularIDs)),
		zap.Int("llamacloud_count", len(cloudIDs)),
	)

	return uc.GetUnified(ctx, agentID)
}

// membershipMap maps every owned ID to whether it appears in assigned.
func membershipMap(owned, assigned []string) map[string]bool {
	m := make(map[string]bool, len(owned))
	for _, id := range owned {
		m[id] = false
	}
	for _, id := range assigned {
		m[id] = true
	}
	return m
}

// normalizeIDs validates UUID format and drops duplicates, preserving the
// set semantics of the request body.
func normalizeIDs(ids []string) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))

	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid ID %q", id)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}

	return result, nil
}
