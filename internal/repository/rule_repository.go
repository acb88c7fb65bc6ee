package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/unialloc/room-alloc-api/internal/models"
)

// RuleRepository reads discipline allocation rules.
type RuleRepository struct {
	db *sqlx.DB
}

// NewRuleRepository constructs the repository.
func NewRuleRepository(db *sqlx.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

// ListByDisciplines fetches rules for many disciplines in a single
// round-trip, grouped by discipline code and ordered by priority ascending
// so hard rules come first.
func (r *RuleRepository) ListByDisciplines(ctx context.Context, disciplineCodes []string) (map[string][]models.Rule, error) {
	grouped := make(map[string][]models.Rule, len(disciplineCodes))
	if len(disciplineCodes) == 0 {
		return grouped, nil
	}

	const query = `SELECT id, discipline_code, kind, config, priority, created_at
FROM rules WHERE discipline_code = ANY($1)
ORDER BY discipline_code ASC, priority ASC, id ASC`
	var rules []models.Rule
	if err := r.db.SelectContext(ctx, &rules, query, pq.Array(disciplineCodes)); err != nil {
		return nil, fmt.Errorf("list rules by disciplines: %w", err)
	}
	for _, rule := range rules {
		grouped[rule.DisciplineCode] = append(grouped[rule.DisciplineCode], rule)
	}
	return grouped, nil
}

// ListByDiscipline returns rules for one discipline, priority ascending.
func (r *RuleRepository) ListByDiscipline(ctx context.Context, disciplineCode string) ([]models.Rule, error) {
	const query = `SELECT id, discipline_code, kind, config, priority, created_at
FROM rules WHERE discipline_code = $1 ORDER BY priority ASC, id ASC`
	var rules []models.Rule
	if err := r.db.SelectContext(ctx, &rules, query, disciplineCode); err != nil {
		return nil, fmt.Errorf("list rules by discipline: %w", err)
	}
	return rules, nil
}
