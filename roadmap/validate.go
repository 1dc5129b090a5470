package roadmap

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError describes a structural invariant violation in a parsed
// roadmap. Entity names the offending milestone, feature, or task so the
// error can be surfaced verbatim.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid roadmap: %s: %s: %s", e.Entity, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid roadmap: %s: %s", e.Entity, e.Reason)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate enforces cross-entity invariants after parsing, before
// reconciliation:
//
//   - titles and names are non-empty after trimming
//   - milestone names, feature titles, and task titles within a feature
//     are unique (title is the sole matching key downstream)
//   - Feature.Milestone, when set, names a milestone in this roadmap
//   - due dates parse as calendar dates
//
// Validate is pure: it returns nil and leaves the roadmap untouched, or
// returns the first violation found.
func Validate(r *Roadmap) error {
	milestones := make(map[string]bool, len(r.Milestones))
	for i := range r.Milestones {
		m := &r.Milestones[i]
		if !trimmed(m.Name) {
			return &ValidationError{Entity: "milestone", Reason: "empty name"}
		}
		if milestones[m.Name] {
			return &ValidationError{Entity: m.Name, Reason: "duplicate milestone name"}
		}
		milestones[m.Name] = true

		if m.DueDate != "" {
			if _, err := time.Parse(DateLayout, m.DueDate); err != nil {
				return &ValidationError{
					Entity: m.Name,
					Field:  "due_date",
					Reason: fmt.Sprintf("malformed date %q, want %s", m.DueDate, DateLayout),
				}
			}
		}
	}

	features := make(map[string]bool, len(r.Features))
	for i := range r.Features {
		f := &r.Features[i]
		if !trimmed(f.Title) {
			return &ValidationError{Entity: "feature", Reason: "empty title"}
		}
		if features[f.Title] {
			return &ValidationError{Entity: f.Title, Reason: "duplicate title"}
		}
		features[f.Title] = true

		if f.Milestone != "" && !milestones[f.Milestone] {
			return &ValidationError{
				Entity: f.Title,
				Field:  "milestone",
				Reason: fmt.Sprintf("dangling milestone reference %q", f.Milestone),
			}
		}

		tasks := make(map[string]bool, len(f.Tasks))
		for j := range f.Tasks {
			t := &f.Tasks[j]
			if !trimmed(t.Title) {
				return &ValidationError{Entity: f.Title, Field: "task", Reason: "empty title"}
			}
			if tasks[t.Title] {
				return &ValidationError{Entity: t.Title, Reason: "duplicate title"}
			}
			tasks[t.Title] = true
		}
	}

	return nil
}
