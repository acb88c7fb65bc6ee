package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unialloc/room-alloc-api/internal/models"
)

func TestProfessorResolverExactMatch(t *testing.T) {
	resolver := NewProfessorResolver([]models.Professor{
		{ID: "p1", FullName: "Ana Souza"},
		{ID: "p2", FullName: "Bruno Lima"},
	})

	got := resolver.Resolve("Bruno Lima")
	require.NotNil(t, got)
	assert.Equal(t, "p2", got.ID)
}

func TestProfessorResolverFirstCommaSeparatedMatchWins(t *testing.T) {
	resolver := NewProfessorResolver([]models.Professor{
		{ID: "p1", FullName: "Ana Souza"},
		{ID: "p2", FullName: "Bruno Lima"},
	})

	got := resolver.Resolve("Carlos Dias, Bruno Lima, Ana Souza")
	require.NotNil(t, got)
	assert.Equal(t, "p2", got.ID, "the first name with a match should win, not the first resolvable overall")
}

func TestProfessorResolverNormalizesCaseAndWhitespace(t *testing.T) {
	resolver := NewProfessorResolver([]models.Professor{
		{ID: "p1", FullName: "Ana   Souza"},
	})

	got := resolver.Resolve("  ana SOUZA ")
	require.NotNil(t, got)
	assert.Equal(t, "p1", got.ID)
}

func TestProfessorResolverNoMatchReturnsNil(t *testing.T) {
	resolver := NewProfessorResolver([]models.Professor{
		{ID: "p1", FullName: "Ana Souza"},
	})

	assert.Nil(t, resolver.Resolve("Desconhecido"))
	assert.Nil(t, resolver.Resolve(""))
	assert.Nil(t, resolver.Resolve(" , , "))
}

func TestProfessorResolverDuplicateNamesFirstRecordWins(t *testing.T) {
	resolver := NewProfessorResolver([]models.Professor{
		{ID: "p1", FullName: "Ana Souza"},
		{ID: "p2", FullName: "Ana Souza"},
	})

	got := resolver.Resolve("Ana Souza")
	require.NotNil(t, got)
	assert.Equal(t, "p1", got.ID)
}
