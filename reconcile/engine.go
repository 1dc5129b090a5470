package reconcile

import (
	"github.com/c360studio/gitscaffold/roadmap"
	"github.com/c360studio/gitscaffold/tracker"
)

// BuildPlan diffs a validated roadmap against a tracker snapshot.
//
// Matching rules:
//
//   - Milestones match on exact name equality, no normalization.
//   - Features and tasks match tracker issues on exact title equality,
//     restricted to OPEN issues. A closed issue does not suppress creation:
//     the roadmap item is re-proposed. This mirrors the long-standing sync
//     behavior and is pinned by tests; see DESIGN.md before changing it.
//   - Tracker issues (open or closed) with no roadmap title become
//     LocalOnly entries, reported and never touched.
//
// Ordering: all milestone actions precede all issue actions, and issue
// actions preserve roadmap feature/task order. BuildPlan performs no I/O
// and never mutates its inputs.
func BuildPlan(r *roadmap.Roadmap, snap *tracker.Snapshot) *Plan {
	plan := &Plan{}

	// Milestones first: issues cannot attach to a milestone that does not
	// exist yet.
	for i := range r.Milestones {
		m := &r.Milestones[i]
		if _, ok := snap.MilestoneByName(m.Name); ok {
			plan.Actions = append(plan.Actions, Action{
				Kind:      ActionNoOp,
				Milestone: m,
				Reason:    "milestone exists",
			})
			continue
		}
		plan.Actions = append(plan.Actions, Action{
			Kind:      ActionCreateMilestone,
			Milestone: m,
		})
	}

	open := openByTitle(snap)

	for i := range r.Features {
		f := &r.Features[i]

		if matched, ok := open[f.Title]; ok {
			plan.Actions = append(plan.Actions, Action{
				Kind:    ActionNoOp,
				Matched: matched,
				Reason:  "open issue with same title",
			})
		} else {
			plan.Actions = append(plan.Actions, Action{
				Kind: ActionCreateIssue,
				Issue: &IssueSpec{
					Kind:      ItemFeature,
					Title:     f.Title,
					Body:      f.Description,
					Labels:    f.Labels,
					Assignees: f.Assignees,
					Milestone: f.Milestone,
				},
			})
		}

		for j := range f.Tasks {
			t := &f.Tasks[j]
			if matched, ok := open[t.Title]; ok {
				plan.Actions = append(plan.Actions, Action{
					Kind:    ActionNoOp,
					Matched: matched,
					Reason:  "open issue with same title",
				})
				continue
			}
			plan.Actions = append(plan.Actions, Action{
				Kind: ActionCreateIssue,
				Issue: &IssueSpec{
					Kind:      ItemTask,
					Title:     t.Title,
					Body:      t.Description,
					Labels:    t.Labels,
					Assignees: t.Assignees,
					Milestone: f.Milestone, // tasks inherit the feature milestone
					Feature:   f.Title,
				},
			})
		}
	}

	// Extra-issue detection considers open AND closed tracker issues.
	known := make(map[string]bool)
	for _, title := range r.Titles() {
		known[title] = true
	}
	for i := range snap.Issues {
		is := &snap.Issues[i]
		if !known[is.Title] {
			plan.Actions = append(plan.Actions, Action{
				Kind:  ActionLocalOnly,
				Local: is,
			})
		}
	}

	return plan
}

// openByTitle indexes open issues by exact title. The first open issue wins
// when the tracker holds duplicates.
func openByTitle(snap *tracker.Snapshot) map[string]*tracker.Issue {
	open := make(map[string]*tracker.Issue)
	for i := range snap.Issues {
		is := &snap.Issues[i]
		if is.State != tracker.StateOpen {
			continue
		}
		if _, ok := open[is.Title]; !ok {
			open[is.Title] = is
		}
	}
	return open
}
