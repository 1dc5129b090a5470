// Package matcher finds duplicate and near-duplicate issues by title.
// Exact duplicates are detected on normalized titles; near matches use
// fuzzy subsequence scoring and are surfaced as suggestions only, never
// acted on automatically.
package matcher

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/c360studio/gitscaffold/tracker"
)

// Normalize reduces a title to a comparison key: lowercase, punctuation
// stripped, whitespace collapsed.
func Normalize(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '-', r == '_':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Group is a set of issues sharing the same normalized title. Keep is the
// issue to retain (the lowest number, i.e. the oldest); Extras are the
// later duplicates.
type Group struct {
	Keep   tracker.Issue
	Extras []tracker.Issue
}

// FindDuplicates groups open issues whose titles normalize to the same key.
// Groups are ordered by the kept issue's number.
func FindDuplicates(issues []tracker.Issue) []Group {
	byKey := make(map[string][]tracker.Issue)
	for _, is := range issues {
		if is.State != tracker.StateOpen {
			continue
		}
		key := Normalize(is.Title)
		if key == "" {
			continue
		}
		byKey[key] = append(byKey[key], is)
	}

	var groups []Group
	for _, set := range byKey {
		if len(set) < 2 {
			continue
		}
		sort.Slice(set, func(i, j int) bool { return set[i].Number < set[j].Number })
		groups = append(groups, Group{Keep: set[0], Extras: set[1:]})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Keep.Number < groups[j].Keep.Number })
	return groups
}

// Suggestion is a near-match between a roadmap title and an existing issue.
type Suggestion struct {
	Title string
	Issue tracker.Issue
	Score int
}

// Pair is a near-match between two open issues whose titles do not
// normalize to the same key. A and B are ordered by issue number.
type Pair struct {
	A, B  tracker.Issue
	Score int
}

// Near returns near-duplicate pairs among open issues: titles that fuzzily
// match without being exact duplicates (those come from FindDuplicates).
// Each pair is reported once, lower issue number first. Suggestions only;
// callers must never close on a fuzzy match.
func Near(issues []tracker.Issue, minScore int) []Pair {
	var open []tracker.Issue
	for _, is := range issues {
		if is.State == tracker.StateOpen {
			open = append(open, is)
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].Number < open[j].Number })

	var pairs []Pair
	for i, a := range open {
		for _, b := range open[i+1:] {
			if Normalize(a.Title) == Normalize(b.Title) {
				continue
			}
			// Matching is directional: the shorter title is the pattern
			// searched for inside the longer one.
			pattern, key := a, b
			if len(Normalize(b.Title)) < len(Normalize(a.Title)) {
				pattern, key = b, a
			}
			for _, s := range Similar(pattern.Title, []tracker.Issue{key}, minScore) {
				pairs = append(pairs, Pair{A: a, B: b, Score: s.Score})
			}
		}
	}
	return pairs
}

// Similar returns existing issues whose titles fuzzily match title, best
// first. minScore filters weak matches; exact-equal titles are excluded
// since those are handled by the reconciliation engine.
func Similar(title string, issues []tracker.Issue, minScore int) []Suggestion {
	keys := make([]string, len(issues))
	for i, is := range issues {
		keys[i] = Normalize(is.Title)
	}

	matches := fuzzy.Find(Normalize(title), keys)

	var out []Suggestion
	for _, m := range matches {
		if m.Score < minScore {
			continue
		}
		is := issues[m.Index]
		if is.Title == title {
			continue
		}
		out = append(out, Suggestion{Title: title, Issue: is, Score: m.Score})
	}
	return out
}
