package tracker

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotMilestoneByName(t *testing.T) {
	snap := &Snapshot{
		Milestones: []Milestone{
			{Number: 1, Name: "Q3", State: StateOpen},
			{Number: 2, Name: "q3", State: StateClosed},
		},
	}

	m, ok := snap.MilestoneByName("Q3")
	require.True(t, ok)
	assert.Equal(t, 1, m.Number)

	// Exact comparison, no case folding.
	m, ok = snap.MilestoneByName("q3")
	require.True(t, ok)
	assert.Equal(t, 2, m.Number)

	_, ok = snap.MilestoneByName("Q4")
	assert.False(t, ok)
}

func TestSnapshotOpenIssues(t *testing.T) {
	snap := &Snapshot{
		Issues: []Issue{
			{Number: 1, Title: "a", State: StateOpen},
			{Number: 2, Title: "b", State: StateClosed},
			{Number: 3, Title: "c", State: StateOpen},
		},
	}

	open := snap.OpenIssues()
	require.Len(t, open, 2)
	assert.Equal(t, 1, open[0].Number)
	assert.Equal(t, 3, open[1].Number)

	assert.Empty(t, (&Snapshot{}).OpenIssues())
}

func TestSnapshotError(t *testing.T) {
	cause := errors.New("gh: connection refused")
	err := fmt.Errorf("fetch: %w", &SnapshotError{Repo: "acme/widgets", Err: cause})

	assert.True(t, IsSnapshotError(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "acme/widgets")

	assert.False(t, IsSnapshotError(errors.New("other")))
}
