package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/c360studio/gitscaffold/tracker"
)

// ApplyError wraps a tracker write failure for one action. Blocked marks
// issue creations skipped because their milestone's creation failed; they
// were never attempted.
type ApplyError struct {
	Title   string
	Kind    ActionKind
	Blocked bool
	Err     error
}

func (e *ApplyError) Error() string {
	if e.Blocked {
		return fmt.Sprintf("apply %s %q: blocked by failed milestone: %v", e.Kind, e.Title, e.Err)
	}
	return fmt.Sprintf("apply %s %q: %v", e.Kind, e.Title, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// IsApplyError reports whether err is (or wraps) an ApplyError.
func IsApplyError(err error) bool {
	var ae *ApplyError
	return errors.As(err, &ae)
}

// Result records what an Apply run did. Issue and milestone numbers are
// handed to the caller for write-back; nothing is retained across runs.
// Every run re-fetches and re-diffs from scratch.
type Result struct {
	// Milestones maps created milestone names to their numbers.
	Milestones map[string]int
	// Issues maps created issue titles to their numbers.
	Issues map[string]int
	// Errors collects per-action failures in plan order.
	Errors []*ApplyError
}

// Failed reports whether any action failed.
func (r *Result) Failed() bool {
	return len(r.Errors) > 0
}

// Applier executes a plan's creation actions against the tracker, in plan
// order. By default it continues past failed actions, collecting errors;
// fail-fast mode stops at the first failure.
type Applier struct {
	writer   tracker.Writer
	failFast bool
	logger   *slog.Logger
}

// ApplierOption configures an Applier.
type ApplierOption func(*Applier)

// WithFailFast stops the applier at the first failed action.
func WithFailFast() ApplierOption {
	return func(a *Applier) {
		a.failFast = true
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ApplierOption {
	return func(a *Applier) {
		a.logger = logger
	}
}

// NewApplier creates an applier over the given tracker writer.
func NewApplier(w tracker.Writer, opts ...ApplierOption) *Applier {
	a := &Applier{
		writer: w,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply executes the plan's creation actions. NoOp and LocalOnly actions are
// skipped, but their matched issue numbers seed the parent-issue linkage for
// task bodies. In fail-fast mode the returned error is the first failure;
// otherwise the error is nil and failures are collected in Result.Errors.
func (a *Applier) Apply(ctx context.Context, plan *Plan) (*Result, error) {
	result := &Result{
		Milestones: make(map[string]int),
		Issues:     make(map[string]int),
	}

	// Issue numbers known before this run starts, from matched open issues.
	numbers := make(map[string]int)
	for _, action := range plan.Actions {
		if action.Kind == ActionNoOp && action.Matched != nil {
			numbers[action.Matched.Title] = action.Matched.Number
		}
	}

	failedMilestones := make(map[string]bool)

	for _, action := range plan.Actions {
		var applyErr *ApplyError

		switch action.Kind {
		case ActionCreateMilestone:
			m := action.Milestone
			number, err := a.writer.CreateMilestone(ctx, m.Name, m.DueDate)
			if err != nil {
				failedMilestones[m.Name] = true
				applyErr = &ApplyError{Title: m.Name, Kind: action.Kind, Err: err}
				break
			}
			result.Milestones[m.Name] = number
			a.logger.Info("Applied milestone", "name", m.Name, "number", number)

		case ActionCreateIssue:
			spec := action.Issue
			if spec.Milestone != "" && failedMilestones[spec.Milestone] {
				// Never attach an issue to a milestone that failed to create.
				applyErr = &ApplyError{
					Title:   spec.Title,
					Kind:    action.Kind,
					Blocked: true,
					Err:     fmt.Errorf("milestone %q was not created", spec.Milestone),
				}
				break
			}

			body := spec.Body
			if spec.Feature != "" {
				if parent, ok := numbers[spec.Feature]; ok {
					if body != "" {
						body += "\n\n"
					}
					body += fmt.Sprintf("Parent issue: #%d", parent)
				}
			}

			number, err := a.writer.CreateIssue(ctx, tracker.NewIssue{
				Title:     spec.Title,
				Body:      body,
				Labels:    spec.Labels,
				Assignees: spec.Assignees,
				Milestone: spec.Milestone,
			})
			if err != nil {
				applyErr = &ApplyError{Title: spec.Title, Kind: action.Kind, Err: err}
				break
			}
			result.Issues[spec.Title] = number
			numbers[spec.Title] = number
			a.logger.Info("Applied issue", "title", spec.Title, "number", number)

		default:
			continue
		}

		if applyErr != nil {
			result.Errors = append(result.Errors, applyErr)
			a.logger.Warn("Action failed", "kind", applyErr.Kind, "title", applyErr.Title, "error", applyErr.Err)
			if a.failFast {
				return result, applyErr
			}
		}
	}

	return result, nil
}
