// Package trackertest provides an in-memory tracker for unit tests.
package trackertest

import (
	"context"
	"fmt"

	"github.com/c360studio/gitscaffold/tracker"
)

// Fake is an in-memory tracker implementing tracker.Reader and
// tracker.Writer. Zero value is an empty repository.
type Fake struct {
	Milestones []tracker.Milestone
	Issues     []tracker.Issue

	// FailMilestones and FailIssues make creation fail by name/title.
	FailMilestones map[string]error
	FailIssues     map[string]error

	// SnapshotErr, when set, makes Snapshot fail.
	SnapshotErr error

	nextIssue     int
	nextMilestone int
}

// Snapshot returns a copy of the current state.
func (f *Fake) Snapshot(_ context.Context) (*tracker.Snapshot, error) {
	if f.SnapshotErr != nil {
		return nil, &tracker.SnapshotError{Repo: "fake/fake", Err: f.SnapshotErr}
	}

	snap := &tracker.Snapshot{
		Milestones: append([]tracker.Milestone(nil), f.Milestones...),
		Issues:     append([]tracker.Issue(nil), f.Issues...),
	}
	return snap, nil
}

// CreateMilestone records a new open milestone.
func (f *Fake) CreateMilestone(_ context.Context, name, dueDate string) (int, error) {
	if err := f.FailMilestones[name]; err != nil {
		return 0, err
	}
	if _, ok := f.find(name); ok {
		return 0, fmt.Errorf("milestone %q already exists", name)
	}

	f.nextMilestone++
	f.Milestones = append(f.Milestones, tracker.Milestone{
		Number:  f.nextMilestone,
		Name:    name,
		State:   tracker.StateOpen,
		DueDate: dueDate,
	})
	return f.nextMilestone, nil
}

// CreateIssue records a new open issue.
func (f *Fake) CreateIssue(_ context.Context, issue tracker.NewIssue) (int, error) {
	if err := f.FailIssues[issue.Title]; err != nil {
		return 0, err
	}

	f.nextIssue++
	number := 100 + f.nextIssue
	f.Issues = append(f.Issues, tracker.Issue{
		Number:    number,
		Title:     issue.Title,
		State:     tracker.StateOpen,
		Labels:    issue.Labels,
		Assignees: issue.Assignees,
		Milestone: issue.Milestone,
		Body:      issue.Body,
	})
	return number, nil
}

// Close marks an issue closed by number.
func (f *Fake) Close(number int) {
	for i := range f.Issues {
		if f.Issues[i].Number == number {
			f.Issues[i].State = tracker.StateClosed
		}
	}
}

// CloseByTitle marks all issues with the given title closed.
func (f *Fake) CloseByTitle(title string) {
	for i := range f.Issues {
		if f.Issues[i].Title == title {
			f.Issues[i].State = tracker.StateClosed
		}
	}
}

func (f *Fake) find(name string) (*tracker.Milestone, bool) {
	for i := range f.Milestones {
		if f.Milestones[i].Name == name {
			return &f.Milestones[i], true
		}
	}
	return nil, false
}
