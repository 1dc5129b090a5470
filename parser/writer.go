package parser

import (
	"fmt"
	"strings"

	"github.com/c360studio/gitscaffold/roadmap"
)

// WriteMarkdown serializes a roadmap back to structured markdown, the format
// the MarkdownParser reads. This is the write-back path: after a sync, task
// completion flags pulled from the tracker are persisted as checkbox state.
// YAML/JSON write-back is unsupported.
//
// Milestones render at heading level milestoneLevel (0 means the default),
// their features one level deeper, tasks as "- [ ]" / "- [x]" bullets.
// Features without a milestone render at milestone level so the output
// reparses to the same structure.
func WriteMarkdown(r *roadmap.Roadmap, milestoneLevel int) []byte {
	if milestoneLevel < 1 || milestoneLevel > 5 {
		milestoneLevel = 2
	}
	mHead := strings.Repeat("#", milestoneLevel)
	fHead := mHead + "#"

	var sb strings.Builder

	if r.Name != "" {
		fmt.Fprintf(&sb, "# %s\n", r.Name)
	}
	if r.Description != "" {
		sb.WriteString("\n" + r.Description + "\n")
	}

	byMilestone := make(map[string][]*roadmap.Feature)
	var loose []*roadmap.Feature
	for i := range r.Features {
		f := &r.Features[i]
		if _, ok := r.MilestoneByName(f.Milestone); f.Milestone != "" && ok {
			byMilestone[f.Milestone] = append(byMilestone[f.Milestone], f)
		} else {
			// Features referencing no (or an unknown) milestone render at the
			// top level with an explicit Milestone: line, never dropped.
			loose = append(loose, f)
		}
	}

	for i := range r.Milestones {
		m := &r.Milestones[i]
		if m.DueDate != "" {
			fmt.Fprintf(&sb, "\n%s %s (due: %s)\n", mHead, m.Name, m.DueDate)
		} else {
			fmt.Fprintf(&sb, "\n%s %s\n", mHead, m.Name)
		}
		for _, f := range byMilestone[m.Name] {
			writeFeature(&sb, fHead, f, false)
		}
	}

	for _, f := range loose {
		writeFeature(&sb, mHead, f, true)
	}

	return []byte(sb.String())
}

// writeFeature emits one feature block. Standalone features carry their
// metadata lines explicitly since no enclosing milestone heading implies them.
func writeFeature(sb *strings.Builder, head string, f *roadmap.Feature, standalone bool) {
	fmt.Fprintf(sb, "\n%s %s\n", head, f.Title)

	if f.Description != "" {
		sb.WriteString("\n" + escapeMetaLines(f.Description) + "\n")
	}
	if standalone && f.Milestone != "" {
		fmt.Fprintf(sb, "Milestone: %s\n", f.Milestone)
	}
	if len(f.Labels) > 0 {
		fmt.Fprintf(sb, "Labels: %s\n", strings.Join(f.Labels, ", "))
	}
	if len(f.Assignees) > 0 {
		fmt.Fprintf(sb, "Assignees: %s\n", strings.Join(f.Assignees, ", "))
	}

	if len(f.Tasks) > 0 {
		sb.WriteString("\n")
		for i := range f.Tasks {
			t := &f.Tasks[i]
			box := " "
			if t.Completed {
				box = "x"
			}
			fmt.Fprintf(sb, "- [%s] %s\n", box, t.Title)
		}
	}
}

// escapeMetaLines backslash-escapes description lines that would reparse as
// feature metadata, so literal "Milestone:" (or "Labels:", "Assignees:")
// text in a description survives the write/parse roundtrip.
func escapeMetaLines(desc string) string {
	lines := strings.Split(desc, "\n")
	for i, line := range lines {
		if metaLinePattern.MatchString(line) {
			lines[i] = `\` + line
		}
	}
	return strings.Join(lines, "\n")
}
