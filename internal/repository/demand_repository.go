package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/unialloc/room-alloc-api/internal/models"
)

// DemandRepository reads imported course-section demands.
type DemandRepository struct {
	db *sqlx.DB
}

// NewDemandRepository constructs the repository.
func NewDemandRepository(db *sqlx.DB) *DemandRepository {
	return &DemandRepository{db: db}
}

// ListUnallocated returns demands of a semester that have no committed
// allocation rows yet. Re-running a semester therefore only touches demands
// the previous runs left unallocated.
func (r *DemandRepository) ListUnallocated(ctx context.Context, semesterID string) ([]models.Demand, error) {
	const query = `SELECT d.id, d.semester_id, d.discipline_code, d.name, d.professor_names, d.section, d.seat_count, d.schedule_code, d.level, d.created_at
FROM demands d
WHERE d.semester_id = $1
  AND NOT EXISTS (SELECT 1 FROM allocations a WHERE a.demand_id = d.id)
ORDER BY d.discipline_code ASC, d.section ASC`
	var demands []models.Demand
	if err := r.db.SelectContext(ctx, &demands, query, semesterID); err != nil {
		return nil, fmt.Errorf("list unallocated demands: %w", err)
	}
	return demands, nil
}
