package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unialloc/room-alloc-api/internal/models"
)

// DecisionRepository persists the optional per-run decision log.
type DecisionRepository struct {
	db *sqlx.DB
}

// NewDecisionRepository constructs the repository.
func NewDecisionRepository(db *sqlx.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

// InsertBatch stores decision entries flushed at the end of a run.
func (r *DecisionRepository) InsertBatch(ctx context.Context, decisions []models.AllocationDecision) error {
	if len(decisions) == 0 {
		return nil
	}
	now := time.Now().UTC()

	const query = `INSERT INTO allocation_decisions (id, run_id, semester_id, demand_id, phase, room_id, score, breakdown, outcome, reason, created_at)
VALUES (:id, :run_id, :semester_id, :demand_id, :phase, :room_id, :score, :breakdown, :outcome, :reason, :created_at)`

	for i := range decisions {
		decision := &decisions[i]
		if decision.ID == "" {
			decision.ID = uuid.NewString()
		}
		if decision.CreatedAt.IsZero() {
			decision.CreatedAt = now
		}
		if _, err := r.db.NamedExecContext(ctx, query, decision); err != nil {
			return fmt.Errorf("insert allocation decision: %w", err)
		}
	}
	return nil
}

// ListByRun returns decision entries for one run, paginated.
func (r *DecisionRepository) ListByRun(ctx context.Context, runID string, page, pageSize int) ([]models.AllocationDecision, *models.Pagination, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 100
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM allocation_decisions WHERE run_id = $1`, runID); err != nil {
		return nil, nil, fmt.Errorf("count allocation decisions: %w", err)
	}

	const query = `SELECT id, run_id, semester_id, demand_id, phase, room_id, score, breakdown, outcome, reason, created_at
FROM allocation_decisions WHERE run_id = $1 ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3`
	var decisions []models.AllocationDecision
	if err := r.db.SelectContext(ctx, &decisions, query, runID, pageSize, (page-1)*pageSize); err != nil {
		return nil, nil, fmt.Errorf("list allocation decisions: %w", err)
	}

	pagination := &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
	return decisions, pagination, nil
}
