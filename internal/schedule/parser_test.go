package schedule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpandsCartesianProduct(t *testing.T) {
	blocks, err := Parse("24M12")
	require.NoError(t, err)
	assert.Equal(t, []Block{
		{Day: 2, Code: "M1"},
		{Day: 2, Code: "M2"},
		{Day: 4, Code: "M1"},
		{Day: 4, Code: "M2"},
	}, blocks)
}

func TestParseEmptyInputIsValid(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t\n"} {
		blocks, err := Parse(raw)
		require.NoError(t, err)
		assert.Empty(t, blocks)
	}
}

func TestParseMultipleGroupsKeepInputOrder(t *testing.T) {
	blocks, err := Parse("2M1 6T34")
	require.NoError(t, err)
	assert.Equal(t, []Block{
		{Day: 2, Code: "M1"},
		{Day: 6, Code: "T3"},
		{Day: 6, Code: "T4"},
	}, blocks)
}

func TestParseDoesNotDeduplicate(t *testing.T) {
	blocks, err := Parse("3N2 3N2")
	require.NoError(t, err)
	assert.Len(t, blocks, 2)
	assert.Equal(t, blocks[0], blocks[1])
}

func TestParseRejectsMalformedTokens(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"day out of range", "8M12"},
		{"day one reserved", "1M1"},
		{"block out of range", "2M7"},
		{"block zero", "2M0"},
		{"missing shift", "234"},
		{"missing days", "M12"},
		{"missing blocks", "24M"},
		{"double shift", "2M1T2"},
		{"lowercase shift", "2m1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.raw)
			require.Error(t, err)
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.NotEmpty(t, parseErr.Token)
		})
	}
}

func TestParseNamesOffendingToken(t *testing.T) {
	_, err := Parse("2M1 9T1 3N2")
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "9T1", parseErr.Token)
}

func TestParseNightShift(t *testing.T) {
	blocks, err := Parse("7N56")
	require.NoError(t, err)
	assert.Equal(t, []Block{
		{Day: 7, Code: "N5"},
		{Day: 7, Code: "N6"},
	}, blocks)
}
