package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/unialloc/room-alloc-api/internal/models"
	"github.com/unialloc/room-alloc-api/internal/schedule"
	appErrors "github.com/unialloc/room-alloc-api/pkg/errors"
)

// AllocationRepository owns the allocations table. It is the only component
// that writes allocation rows; the unique index on (semester_id, room_id,
// day_code, block_code) backstops the engine's conflict checks.
type AllocationRepository struct {
	db *sqlx.DB
}

// NewAllocationRepository constructs the repository.
func NewAllocationRepository(db *sqlx.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

// ListOccupied returns every committed (room, day, block) triple of a
// semester in one round-trip. Phases 1 and 2 build their occupancy index
// from this instead of issuing per-triple queries.
func (r *AllocationRepository) ListOccupied(ctx context.Context, semesterID string) ([]models.OccupiedSlot, error) {
	const query = `SELECT room_id, day_code, block_code FROM allocations WHERE semester_id = $1`
	var slots []models.OccupiedSlot
	if err := r.db.SelectContext(ctx, &slots, query, semesterID); err != nil {
		return nil, fmt.Errorf("list occupied slots: %w", err)
	}
	return slots, nil
}

// ListByRoom returns the committed slots of one room in a semester. Phase 3
// calls this immediately before each commit so the check always reads the
// live table, never a phase-2 snapshot.
func (r *AllocationRepository) ListByRoom(ctx context.Context, semesterID, roomID string) ([]models.OccupiedSlot, error) {
	const query = `SELECT room_id, day_code, block_code FROM allocations WHERE semester_id = $1 AND room_id = $2`
	var slots []models.OccupiedSlot
	if err := r.db.SelectContext(ctx, &slots, query, semesterID, roomID); err != nil {
		return nil, fmt.Errorf("list room slots: %w", err)
	}
	return slots, nil
}

// BulkCreateWithTx inserts one demand's complete block set inside the given
// transaction. Either every row persists or none do.
func (r *AllocationRepository) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, allocations []models.Allocation) error {
	if len(allocations) == 0 {
		return nil
	}
	now := time.Now().UTC()

	const query = `INSERT INTO allocations (id, semester_id, demand_id, room_id, day_code, block_code, created_at)
VALUES (:id, :semester_id, :demand_id, :room_id, :day_code, :block_code, :created_at)`

	for i := range allocations {
		alloc := &allocations[i]
		if alloc.ID == "" {
			alloc.ID = uuid.NewString()
		}
		if alloc.CreatedAt.IsZero() {
			alloc.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, tx, query, alloc); err != nil {
			return fmt.Errorf("insert allocation: %w", err)
		}
	}
	return nil
}

// CommitBlocks persists one demand's complete block set in a room as a
// single transaction: all rows persist or none do. A unique-index violation
// surfaces as ErrConflict so callers can fall back to the next candidate.
func (r *AllocationRepository) CommitBlocks(ctx context.Context, semesterID, demandID, roomID string, blocks []schedule.Block) error {
	if len(blocks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin allocation transaction: %w", err)
	}

	allocations := make([]models.Allocation, 0, len(blocks))
	for _, block := range blocks {
		allocations = append(allocations, models.Allocation{
			SemesterID: semesterID,
			DemandID:   demandID,
			RoomID:     roomID,
			DayCode:    block.Day,
			BlockCode:  block.Code,
		})
	}

	if err := r.BulkCreateWithTx(ctx, tx, allocations); err != nil {
		_ = tx.Rollback()
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "slot already allocated")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit allocation transaction: %w", err)
	}
	return nil
}

// Postgres error code for unique constraint violations.
const uniqueViolation = pq.ErrorCode("23505")

// List returns committed allocations with pagination for the reporting
// surface.
func (r *AllocationRepository) List(ctx context.Context, filter models.AllocationFilter) ([]models.Allocation, *models.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}

	where := "WHERE semester_id = $1"
	args := []interface{}{filter.SemesterID}
	if filter.RoomID != "" {
		args = append(args, filter.RoomID)
		where += fmt.Sprintf(" AND room_id = $%d", len(args))
	}
	if filter.DemandID != "" {
		args = append(args, filter.DemandID)
		where += fmt.Sprintf(" AND demand_id = $%d", len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM allocations " + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, nil, fmt.Errorf("count allocations: %w", err)
	}

	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	listQuery := fmt.Sprintf(`SELECT id, semester_id, demand_id, room_id, day_code, block_code, created_at
FROM allocations %s ORDER BY room_id ASC, day_code ASC, block_code ASC LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))
	var allocations []models.Allocation
	if err := r.db.SelectContext(ctx, &allocations, listQuery, args...); err != nil {
		return nil, nil, fmt.Errorf("list allocations: %w", err)
	}

	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return allocations, pagination, nil
}

// HistoryCounts returns, per discipline and room, the number of distinct
// prior semesters (excluding the given one) in which the discipline was
// allocated to the room. One query covers every discipline in the run.
func (r *AllocationRepository) HistoryCounts(ctx context.Context, disciplineCodes []string, excludeSemesterID string) (map[string]map[string]int, error) {
	result := make(map[string]map[string]int, len(disciplineCodes))
	if len(disciplineCodes) == 0 {
		return result, nil
	}

	const query = `SELECT d.discipline_code, a.room_id, COUNT(DISTINCT a.semester_id) AS semesters
FROM allocations a
JOIN demands d ON d.id = a.demand_id
WHERE d.discipline_code = ANY($1) AND a.semester_id <> $2
GROUP BY d.discipline_code, a.room_id`
	var rows []struct {
		DisciplineCode string `db:"discipline_code"`
		RoomID         string `db:"room_id"`
		Semesters      int    `db:"semesters"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(disciplineCodes), excludeSemesterID); err != nil {
		return nil, fmt.Errorf("count allocation history: %w", err)
	}
	for _, row := range rows {
		if result[row.DisciplineCode] == nil {
			result[row.DisciplineCode] = make(map[string]int)
		}
		result[row.DisciplineCode][row.RoomID] = row.Semesters
	}
	return result, nil
}
