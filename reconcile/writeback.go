package reconcile

import (
	"github.com/c360studio/gitscaffold/roadmap"
	"github.com/c360studio/gitscaffold/tracker"
)

// WriteBack pulls completion state from the tracker into the roadmap: every
// task whose matching tracker issue is closed gets Completed set. Matching
// is the same exact-title rule as planning, and open-state aware: a title
// with any open issue counts as still in progress, so the task stays
// incomplete. Tasks absent from the tracker are left unchanged.
//
// This is the only path that mutates a roadmap after parsing. It returns
// the number of tasks flipped to completed.
func WriteBack(r *roadmap.Roadmap, snap *tracker.Snapshot) int {
	hasOpen := make(map[string]bool)
	hasClosed := make(map[string]bool)
	for i := range snap.Issues {
		is := &snap.Issues[i]
		switch is.State {
		case tracker.StateOpen:
			hasOpen[is.Title] = true
		case tracker.StateClosed:
			hasClosed[is.Title] = true
		}
	}

	updated := 0
	for i := range r.Features {
		f := &r.Features[i]
		for j := range f.Tasks {
			t := &f.Tasks[j]
			if t.Completed {
				continue
			}
			if hasClosed[t.Title] && !hasOpen[t.Title] {
				t.Completed = true
				updated++
			}
		}
	}
	return updated
}
