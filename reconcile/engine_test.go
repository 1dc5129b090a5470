package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/gitscaffold/roadmap"
	"github.com/c360studio/gitscaffold/tracker"
	"github.com/c360studio/gitscaffold/tracker/trackertest"
)

func demoRoadmap() *roadmap.Roadmap {
	r := &roadmap.Roadmap{
		Name: "Demo",
		Milestones: []roadmap.Milestone{
			{Name: "M1", DueDate: "2026-06-01"},
		},
		Features: []roadmap.Feature{
			{
				Title:     "F1",
				Milestone: "M1",
				Labels:    []string{"feature"},
				Tasks:     []roadmap.Task{{Title: "T1"}},
			},
		},
	}
	r.Link()
	return r
}

func kinds(plan *Plan) []ActionKind {
	out := make([]ActionKind, len(plan.Actions))
	for i, a := range plan.Actions {
		out[i] = a.Kind
	}
	return out
}

func TestBuildPlanEmptyTracker(t *testing.T) {
	plan := BuildPlan(demoRoadmap(), &tracker.Snapshot{})

	require.Len(t, plan.Actions, 3)
	assert.Equal(t, []ActionKind{ActionCreateMilestone, ActionCreateIssue, ActionCreateIssue}, kinds(plan))

	assert.Equal(t, "M1", plan.Actions[0].Milestone.Name)

	f := plan.Actions[1].Issue
	assert.Equal(t, ItemFeature, f.Kind)
	assert.Equal(t, "F1", f.Title)
	assert.Equal(t, "M1", f.Milestone)

	task := plan.Actions[2].Issue
	assert.Equal(t, ItemTask, task.Kind)
	assert.Equal(t, "T1", task.Title)
	assert.Equal(t, "M1", task.Milestone, "tasks inherit the feature milestone")
	assert.Equal(t, "F1", task.Feature)
}

func TestBuildPlanMilestonesPrecedeIssues(t *testing.T) {
	r := &roadmap.Roadmap{
		Milestones: []roadmap.Milestone{{Name: "M1"}, {Name: "M2"}},
		Features: []roadmap.Feature{
			{Title: "F1", Milestone: "M2"},
			{Title: "F2", Milestone: "M1"},
		},
	}

	plan := BuildPlan(r, &tracker.Snapshot{})

	assert.Equal(t, []ActionKind{
		ActionCreateMilestone, ActionCreateMilestone,
		ActionCreateIssue, ActionCreateIssue,
	}, kinds(plan))
	// Issue order follows the roadmap, not the milestone order.
	assert.Equal(t, "F1", plan.Actions[2].Issue.Title)
	assert.Equal(t, "F2", plan.Actions[3].Issue.Title)
}

func TestBuildPlanOpenIssueMatches(t *testing.T) {
	snap := &tracker.Snapshot{
		Milestones: []tracker.Milestone{{Number: 1, Name: "M1", State: tracker.StateOpen}},
		Issues: []tracker.Issue{
			{Number: 10, Title: "F1", State: tracker.StateOpen},
		},
	}

	plan := BuildPlan(demoRoadmap(), snap)

	require.Len(t, plan.Actions, 3)
	assert.Equal(t, ActionNoOp, plan.Actions[0].Kind)
	assert.Equal(t, ActionNoOp, plan.Actions[1].Kind)
	assert.Equal(t, 10, plan.Actions[1].Matched.Number)
	assert.Equal(t, ActionCreateIssue, plan.Actions[2].Kind)
}

func TestBuildPlanClosedIssueDoesNotSuppress(t *testing.T) {
	// A closed issue with the same title does not stop re-creation: the
	// roadmap entry is proposed again.
	snap := &tracker.Snapshot{
		Issues: []tracker.Issue{
			{Number: 10, Title: "F1", State: tracker.StateClosed},
		},
	}

	r := &roadmap.Roadmap{Features: []roadmap.Feature{{Title: "F1"}}}
	plan := BuildPlan(r, snap)

	require.Len(t, plan.Actions, 1)
	assert.Equal(t, ActionCreateIssue, plan.Actions[0].Kind)
}

func TestBuildPlanCaseSensitive(t *testing.T) {
	snap := &tracker.Snapshot{
		Issues: []tracker.Issue{
			{Number: 10, Title: "setup ci", State: tracker.StateOpen},
		},
	}

	r := &roadmap.Roadmap{Features: []roadmap.Feature{{Title: "Setup CI"}}}
	plan := BuildPlan(r, snap)

	var kindsSeen []ActionKind
	for _, a := range plan.Actions {
		kindsSeen = append(kindsSeen, a.Kind)
	}
	// Different case means no match: one create, one local-only report.
	assert.Equal(t, []ActionKind{ActionCreateIssue, ActionLocalOnly}, kindsSeen)
}

func TestBuildPlanLocalOnlyIncludesClosed(t *testing.T) {
	snap := &tracker.Snapshot{
		Issues: []tracker.Issue{
			{Number: 10, Title: "Old open work", State: tracker.StateOpen},
			{Number: 11, Title: "Old closed work", State: tracker.StateClosed},
		},
	}

	r := &roadmap.Roadmap{Features: []roadmap.Feature{{Title: "F1"}}}
	plan := BuildPlan(r, snap)

	local := plan.LocalOnly()
	require.Len(t, local, 2)
	assert.Equal(t, 10, local[0].Number)
	assert.Equal(t, 11, local[1].Number)
}

func TestBuildPlanDuplicateOpenTitlesFirstWins(t *testing.T) {
	snap := &tracker.Snapshot{
		Issues: []tracker.Issue{
			{Number: 10, Title: "F1", State: tracker.StateOpen},
			{Number: 11, Title: "F1", State: tracker.StateOpen},
		},
	}

	r := &roadmap.Roadmap{Features: []roadmap.Feature{{Title: "F1"}}}
	plan := BuildPlan(r, snap)

	assert.Equal(t, ActionNoOp, plan.Actions[0].Kind)
	assert.Equal(t, 10, plan.Actions[0].Matched.Number)
}

func TestBuildPlanDoesNotMutateInputs(t *testing.T) {
	r := demoRoadmap()
	snap := &tracker.Snapshot{
		Issues: []tracker.Issue{{Number: 10, Title: "Extra", State: tracker.StateOpen}},
	}

	_ = BuildPlan(r, snap)

	assert.Equal(t, demoRoadmap(), r)
	assert.Len(t, snap.Issues, 1)
}

func TestReconcileIdempotent(t *testing.T) {
	// Apply a plan against a fake tracker, then re-plan: the second plan must
	// contain no creation actions.
	fake := &trackertest.Fake{}
	ctx := context.Background()

	snap, err := fake.Snapshot(ctx)
	require.NoError(t, err)

	first := BuildPlan(demoRoadmap(), snap)
	assert.False(t, first.IsEmpty())

	_, err = NewApplier(fake).Apply(ctx, first)
	require.NoError(t, err)

	snap, err = fake.Snapshot(ctx)
	require.NoError(t, err)

	second := BuildPlan(demoRoadmap(), snap)
	assert.True(t, second.IsEmpty(), "re-running against an up-to-date tracker must plan nothing")
	assert.Empty(t, second.LocalOnly())
}

func TestPlanAccessors(t *testing.T) {
	snap := &tracker.Snapshot{
		Issues: []tracker.Issue{
			{Number: 10, Title: "T1", State: tracker.StateOpen},
			{Number: 11, Title: "Unrelated", State: tracker.StateOpen},
		},
	}

	plan := BuildPlan(demoRoadmap(), snap)

	assert.False(t, plan.IsEmpty())
	assert.Len(t, plan.Creates(), 2) // M1 and F1; T1 matched
	require.Len(t, plan.RoadmapOnly(), 1)
	assert.Equal(t, "F1", plan.RoadmapOnly()[0].Title)
	require.Len(t, plan.LocalOnly(), 1)
	assert.Equal(t, "Unrelated", plan.LocalOnly()[0].Title)
}
