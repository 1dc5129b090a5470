// Package reconcile diffs a validated roadmap against a tracker snapshot and
// produces a change plan, then applies that plan through the tracker write
// interface. Planning never mutates anything: the plan is always inspectable
// before the applier runs, which is how dry-run and cancellation work.
package reconcile

import (
	"github.com/c360studio/gitscaffold/roadmap"
	"github.com/c360studio/gitscaffold/tracker"
)

// ActionKind identifies what a planned action does.
type ActionKind string

const (
	// ActionCreateMilestone creates a roadmap milestone missing from the tracker.
	ActionCreateMilestone ActionKind = "create-milestone"
	// ActionCreateIssue creates an issue for an unmatched feature or task.
	ActionCreateIssue ActionKind = "create-issue"
	// ActionNoOp records an exact match; nothing to do.
	ActionNoOp ActionKind = "no-op"
	// ActionLocalOnly records a tracker issue with no roadmap counterpart.
	// Reported, never auto-closed: deletion is a separate explicit command.
	ActionLocalOnly ActionKind = "local-only"
)

// ItemKind distinguishes feature issues from task issues.
type ItemKind string

const (
	ItemFeature ItemKind = "feature"
	ItemTask    ItemKind = "task"
)

// IssueSpec is the resolved payload of a planned issue creation.
type IssueSpec struct {
	Kind      ItemKind
	Title     string
	Body      string
	Labels    []string
	Assignees []string
	Milestone string

	// Feature is the owning feature title for task issues. The applier uses
	// it to link the task body to its parent issue once the number is known.
	Feature string
}

// Action is one planned step. Exactly one of Milestone, Issue, Matched, or
// Local is set, according to Kind (NoOp carries Matched when the reason is a
// title match).
type Action struct {
	Kind      ActionKind
	Milestone *roadmap.Milestone
	Issue     *IssueSpec
	Matched   *tracker.Issue
	Local     *tracker.Issue
	Reason    string
}

// Plan is the ordered action sequence for one reconciliation run. All
// milestone creations precede all issue creations; issue creations preserve
// roadmap order. Plans are rebuilt from scratch every run and never
// persisted.
type Plan struct {
	Actions []Action
}

// IsEmpty reports whether the plan contains no creation actions. Running
// reconciliation twice without intervening tracker changes yields an empty
// second plan.
func (p *Plan) IsEmpty() bool {
	for _, a := range p.Actions {
		switch a.Kind {
		case ActionCreateMilestone, ActionCreateIssue:
			return false
		}
	}
	return true
}

// Creates returns the creation actions in plan order.
func (p *Plan) Creates() []Action {
	var creates []Action
	for _, a := range p.Actions {
		switch a.Kind {
		case ActionCreateMilestone, ActionCreateIssue:
			creates = append(creates, a)
		}
	}
	return creates
}

// LocalOnly returns the tracker issues absent from the roadmap.
func (p *Plan) LocalOnly() []tracker.Issue {
	var extras []tracker.Issue
	for _, a := range p.Actions {
		if a.Kind == ActionLocalOnly {
			extras = append(extras, *a.Local)
		}
	}
	return extras
}

// RoadmapOnly returns the specs of roadmap items absent from the tracker.
// This is the diff-view counterpart of Creates.
func (p *Plan) RoadmapOnly() []IssueSpec {
	var specs []IssueSpec
	for _, a := range p.Actions {
		if a.Kind == ActionCreateIssue {
			specs = append(specs, *a.Issue)
		}
	}
	return specs
}
