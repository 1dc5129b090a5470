// Package roadmap defines the canonical in-memory roadmap model shared by
// the format parsers, the validator, and the reconciliation engine. A Roadmap
// is built once per run by a parser, validated, and then treated as read-only;
// the only later mutation is the write-back pass that flips Task completion
// flags from tracker state.
package roadmap

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used for milestone due dates.
const DateLayout = "2006-01-02"

// Roadmap is the top-level document: a named project plan with an ordered
// list of milestones and an ordered list of features.
type Roadmap struct {
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Milestones  []Milestone `yaml:"milestones,omitempty" json:"milestones,omitempty"`
	Features    []Feature   `yaml:"features,omitempty" json:"features,omitempty"`
}

// Milestone is a named delivery target. Name is the unique key used for
// matching against the tracker. DueDate is an ISO date (DateLayout) or empty
// for open-ended milestones.
type Milestone struct {
	Name    string `yaml:"name" json:"name"`
	DueDate string `yaml:"due_date,omitempty" json:"due_date,omitempty"`
}

// Due returns the parsed due date, or false for open-ended milestones.
func (m *Milestone) Due() (time.Time, bool) {
	if m.DueDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, m.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Feature is a unit of work that becomes one tracker issue. Title is the
// unique key within the Roadmap. Milestone, when set, names a Milestone in
// the same Roadmap.
type Feature struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Milestone   string   `yaml:"milestone,omitempty" json:"milestone,omitempty"`
	Labels      []string `yaml:"labels,omitempty" json:"labels,omitempty"`
	Assignees   []string `yaml:"assignees,omitempty" json:"assignees,omitempty"`
	Tasks       []Task   `yaml:"tasks,omitempty" json:"tasks,omitempty"`
}

// Task is a sub-item of a Feature that becomes its own tracker issue.
// Title is the unique key within the owning Feature.
type Task struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Labels      []string `yaml:"labels,omitempty" json:"labels,omitempty"`
	Assignees   []string `yaml:"assignees,omitempty" json:"assignees,omitempty"`
	Completed   bool     `yaml:"completed,omitempty" json:"completed,omitempty"`

	// parent is the owning feature, set by Link. Ownership only: identity is
	// always the task title, never the path through the parent.
	parent *Feature
}

// Parent returns the owning Feature, or nil if Link has not run.
func (t *Task) Parent() *Feature {
	return t.parent
}

// Link wires Task back-references to their owning Features. Call after
// construction or unmarshalling, before handing the roadmap to consumers.
func (r *Roadmap) Link() {
	for i := range r.Features {
		f := &r.Features[i]
		for j := range f.Tasks {
			f.Tasks[j].parent = f
		}
	}
}

// MilestoneByName returns the milestone with the given name, if present.
func (r *Roadmap) MilestoneByName(name string) (*Milestone, bool) {
	for i := range r.Milestones {
		if r.Milestones[i].Name == name {
			return &r.Milestones[i], true
		}
	}
	return nil, false
}

// IsEmpty reports whether the roadmap contains no features. An empty roadmap
// from a structured parse is the trigger for the AI-extraction fallback.
func (r *Roadmap) IsEmpty() bool {
	return len(r.Features) == 0
}

// TaskStats returns the total and completed task counts across all features.
func (r *Roadmap) TaskStats() (total, completed int) {
	for i := range r.Features {
		for j := range r.Features[i].Tasks {
			total++
			if r.Features[i].Tasks[j].Completed {
				completed++
			}
		}
	}
	return total, completed
}

// Titles returns every feature and task title in roadmap order. The result
// is the exact-match key set used by the reconciliation engine.
func (r *Roadmap) Titles() []string {
	var titles []string
	for i := range r.Features {
		titles = append(titles, r.Features[i].Title)
		for j := range r.Features[i].Tasks {
			titles = append(titles, r.Features[i].Tasks[j].Title)
		}
	}
	return titles
}

// trimmed reports whether s is non-empty after trimming whitespace.
func trimmed(s string) bool {
	return strings.TrimSpace(s) != ""
}
