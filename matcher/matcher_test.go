package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/gitscaffold/tracker"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Set up CI", "set up ci"},
		{"SET-UP_CI", "set up ci"},
		{"  Fix   login!!  ", "fix login"},
		{"v2.0 release", "v20 release"},
		{"???", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), tt.in)
	}
}

func TestFindDuplicates(t *testing.T) {
	issues := []tracker.Issue{
		{Number: 5, Title: "Fix Login", State: tracker.StateOpen},
		{Number: 3, Title: "fix login", State: tracker.StateOpen},
		{Number: 9, Title: "fix-login", State: tracker.StateOpen},
		{Number: 7, Title: "Write docs", State: tracker.StateOpen},
		{Number: 8, Title: "Fix Login", State: tracker.StateClosed},
	}

	groups := FindDuplicates(issues)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, 3, g.Keep.Number, "oldest issue is kept")
	require.Len(t, g.Extras, 2)
	assert.Equal(t, 5, g.Extras[0].Number)
	assert.Equal(t, 9, g.Extras[1].Number)
}

func TestFindDuplicatesIgnoresClosed(t *testing.T) {
	issues := []tracker.Issue{
		{Number: 1, Title: "A", State: tracker.StateClosed},
		{Number: 2, Title: "A", State: tracker.StateClosed},
	}

	assert.Empty(t, FindDuplicates(issues))
}

func TestFindDuplicatesNone(t *testing.T) {
	issues := []tracker.Issue{
		{Number: 1, Title: "A", State: tracker.StateOpen},
		{Number: 2, Title: "B", State: tracker.StateOpen},
	}

	assert.Empty(t, FindDuplicates(issues))
}

func TestNear(t *testing.T) {
	issues := []tracker.Issue{
		{Number: 4, Title: "Add user auth", State: tracker.StateOpen},
		{Number: 2, Title: "Add user authentication", State: tracker.StateOpen},
		{Number: 7, Title: "Write docs", State: tracker.StateOpen},
	}

	pairs := Near(issues, 0)
	require.Len(t, pairs, 1)
	assert.Equal(t, 2, pairs[0].A.Number, "lower issue number first")
	assert.Equal(t, 4, pairs[0].B.Number)
}

func TestNearExcludesExactDuplicates(t *testing.T) {
	// Same normalized key belongs to FindDuplicates, not the near report.
	issues := []tracker.Issue{
		{Number: 1, Title: "Fix Login", State: tracker.StateOpen},
		{Number: 2, Title: "fix-login", State: tracker.StateOpen},
	}

	assert.Empty(t, Near(issues, 0))
}

func TestNearIgnoresClosed(t *testing.T) {
	issues := []tracker.Issue{
		{Number: 1, Title: "Add user auth", State: tracker.StateOpen},
		{Number: 2, Title: "Add user authentication", State: tracker.StateClosed},
	}

	assert.Empty(t, Near(issues, 0))
}

func TestSimilar(t *testing.T) {
	issues := []tracker.Issue{
		{Number: 1, Title: "Set up continuous integration", State: tracker.StateOpen},
		{Number: 2, Title: "Write documentation", State: tracker.StateOpen},
	}

	suggestions := Similar("set up ci", issues, -1000)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, 1, suggestions[0].Issue.Number)
}

func TestSimilarExcludesExactTitle(t *testing.T) {
	issues := []tracker.Issue{
		{Number: 1, Title: "Set up CI", State: tracker.StateOpen},
	}

	assert.Empty(t, Similar("Set up CI", issues, -1000))
}
