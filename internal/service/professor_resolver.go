package service

import (
	"strings"

	"github.com/unialloc/room-alloc-api/internal/models"
)

// ProfessorResolver matches the free-text professor field of a demand to a
// professor record. Resolution is exact on the normalized full name; the
// first comma-separated name with a match wins. Ambiguity between
// identically named professors is an accepted limitation inherited from the
// upstream data model.
type ProfessorResolver struct {
	byName map[string]*models.Professor
}

// NewProfessorResolver builds the name index once per run.
func NewProfessorResolver(professors []models.Professor) *ProfessorResolver {
	index := make(map[string]*models.Professor, len(professors))
	for i := range professors {
		key := normalizeName(professors[i].FullName)
		if key == "" {
			continue
		}
		// first record wins on duplicate names
		if _, exists := index[key]; !exists {
			index[key] = &professors[i]
		}
	}
	return &ProfessorResolver{byName: index}
}

// Resolve returns the first professor whose full name matches one of the
// comma-separated names, or nil when none match.
func (r *ProfessorResolver) Resolve(freeText string) *models.Professor {
	for _, name := range strings.Split(freeText, ",") {
		key := normalizeName(name)
		if key == "" {
			continue
		}
		if professor, ok := r.byName[key]; ok {
			return professor
		}
	}
	return nil
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
