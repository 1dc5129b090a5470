package githubcli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/gitscaffold/tracker"
)

func TestNew(t *testing.T) {
	c, err := New("acme/widgets")
	require.NoError(t, err)
	assert.Equal(t, "acme/widgets", c.Repo())

	_, err = New("")
	assert.Error(t, err)

	_, err = New("not-a-repo")
	assert.Error(t, err)
}

func TestParseIssues(t *testing.T) {
	data := []byte(`[
		{
			"number": 12,
			"title": "Search improvements",
			"state": "OPEN",
			"body": "Rework the query planner.",
			"labels": [{"name": "feature"}, {"name": "search"}],
			"assignees": [{"login": "alice"}],
			"milestone": {"title": "Q3"}
		},
		{
			"number": 9,
			"title": "Fix login redirect",
			"state": "CLOSED",
			"body": "",
			"labels": [],
			"assignees": [],
			"milestone": null
		}
	]`)

	issues, err := parseIssues(data)
	require.NoError(t, err)
	require.Len(t, issues, 2)

	assert.Equal(t, 12, issues[0].Number)
	assert.Equal(t, "Search improvements", issues[0].Title)
	assert.Equal(t, tracker.StateOpen, issues[0].State)
	assert.Equal(t, []string{"feature", "search"}, issues[0].Labels)
	assert.Equal(t, []string{"alice"}, issues[0].Assignees)
	assert.Equal(t, "Q3", issues[0].Milestone)

	assert.Equal(t, tracker.StateClosed, issues[1].State)
	assert.Empty(t, issues[1].Milestone)
}

func TestParseIssuesMalformed(t *testing.T) {
	_, err := parseIssues([]byte(`{"not": "an array"}`))
	assert.Error(t, err)
}

func TestParseMilestones(t *testing.T) {
	data := []byte(`[
		{"number": 1, "title": "Q3", "state": "open", "due_on": "2026-10-01T00:00:00Z"},
		{"number": 2, "title": "Q4", "state": "closed", "due_on": ""}
	]`)

	milestones, err := parseMilestones(data)
	require.NoError(t, err)
	require.Len(t, milestones, 2)

	assert.Equal(t, tracker.Milestone{Number: 1, Name: "Q3", State: tracker.StateOpen, DueDate: "2026-10-01"}, milestones[0])
	assert.Equal(t, tracker.Milestone{Number: 2, Name: "Q4", State: tracker.StateClosed}, milestones[1])
}

func TestParseMilestonesPaginated(t *testing.T) {
	// gh api --paginate concatenates one JSON array per page.
	data := []byte(`[{"number": 1, "title": "Q3", "state": "open", "due_on": ""}]` +
		`[{"number": 2, "title": "Q4", "state": "open", "due_on": ""}]`)

	milestones, err := parseMilestones(data)
	require.NoError(t, err)
	require.Len(t, milestones, 2)
	assert.Equal(t, "Q3", milestones[0].Name)
	assert.Equal(t, "Q4", milestones[1].Name)
}

func TestParseMilestonesEmpty(t *testing.T) {
	milestones, err := parseMilestones([]byte(``))
	require.NoError(t, err)
	assert.Empty(t, milestones)
}

func TestExtractIssueNumber(t *testing.T) {
	assert.Equal(t, 42, extractIssueNumber("https://github.com/acme/widgets/issues/42"))
	assert.Equal(t, 7, extractIssueNumber("https://github.com/acme/widgets/issues/7\n"))
	assert.Equal(t, 0, extractIssueNumber("https://github.com/acme/widgets/issues/"))
	assert.Equal(t, 0, extractIssueNumber("no url at all"))
}
