// Package tracker defines the issue-tracker boundary: normalized snapshot
// records of milestones and issues, plus the read/write interfaces the
// reconciliation engine and change applier depend on. Implementations live
// in subpackages; the engine itself never performs I/O.
package tracker

import (
	"context"
	"errors"
	"fmt"
)

// State is a tracker item's lifecycle state.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// Issue is a normalized tracker issue record.
type Issue struct {
	Number    int      `json:"number"`
	Title     string   `json:"title"`
	State     State    `json:"state"`
	Labels    []string `json:"labels,omitempty"`
	Assignees []string `json:"assignees,omitempty"`
	Milestone string   `json:"milestone,omitempty"`
	Body      string   `json:"body,omitempty"`
}

// Milestone is a normalized tracker milestone record.
type Milestone struct {
	Number  int    `json:"number"`
	Name    string `json:"name"`
	State   State  `json:"state"`
	DueDate string `json:"due_date,omitempty"`
}

// Snapshot is the tracker state at fetch time: all milestones and all
// issues, open and closed. The engine diffs a roadmap against exactly one
// snapshot; nothing is cached across runs.
type Snapshot struct {
	Milestones []Milestone
	Issues     []Issue
}

// MilestoneByName returns the milestone with the given name under exact
// string comparison.
func (s *Snapshot) MilestoneByName(name string) (*Milestone, bool) {
	for i := range s.Milestones {
		if s.Milestones[i].Name == name {
			return &s.Milestones[i], true
		}
	}
	return nil, false
}

// OpenIssues returns the issues in the open state, the only ones eligible
// for title matching.
func (s *Snapshot) OpenIssues() []Issue {
	var open []Issue
	for _, is := range s.Issues {
		if is.State == StateOpen {
			open = append(open, is)
		}
	}
	return open
}

// NewIssue is the payload for creating a tracker issue.
type NewIssue struct {
	Title     string
	Body      string
	Labels    []string
	Assignees []string
	Milestone string
}

// Reader fetches the current tracker state.
type Reader interface {
	// Snapshot fetches all milestones and issues. Failures surface as a
	// SnapshotError: fatal to the run, the caller retries or aborts.
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// Writer executes creation against the tracker write API.
type Writer interface {
	// CreateMilestone creates a milestone and returns its number. dueDate is
	// an ISO date or empty for open-ended.
	CreateMilestone(ctx context.Context, name, dueDate string) (int, error)

	// CreateIssue creates an issue and returns its number.
	CreateIssue(ctx context.Context, issue NewIssue) (int, error)
}

// SnapshotError wraps a tracker read failure.
type SnapshotError struct {
	Repo string
	Err  error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("tracker snapshot %s: %v", e.Repo, e.Err)
}

func (e *SnapshotError) Unwrap() error {
	return e.Err
}

// IsSnapshotError reports whether err is (or wraps) a SnapshotError.
func IsSnapshotError(err error) bool {
	var se *SnapshotError
	return errors.As(err, &se)
}
