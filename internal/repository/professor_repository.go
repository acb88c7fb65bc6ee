package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/unialloc/room-alloc-api/internal/models"
)

// ProfessorRepository reads professor records.
type ProfessorRepository struct {
	db *sqlx.DB
}

// NewProfessorRepository constructs the repository.
func NewProfessorRepository(db *sqlx.DB) *ProfessorRepository {
	return &ProfessorRepository{db: db}
}

// ListAll returns every professor; the resolver builds its name index from
// this once per run.
func (r *ProfessorRepository) ListAll(ctx context.Context) ([]models.Professor, error) {
	const query = `SELECT id, full_name, mobility_impaired, preferred_rooms, preferred_characteristics, created_at, updated_at
FROM professors ORDER BY full_name ASC`
	var professors []models.Professor
	if err := r.db.SelectContext(ctx, &professors, query); err != nil {
		return nil, fmt.Errorf("list professors: %w", err)
	}
	return professors, nil
}
