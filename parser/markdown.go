package parser

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/c360studio/gitscaffold/roadmap"
)

// FormatMarkdown is the format name of the structured markdown parser.
const FormatMarkdown = "markdown"

// Pre-compiled patterns for structured markdown roadmaps.
var (
	// headingPattern matches markdown headers: ## Section Name
	headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)
	// taskLinePattern matches markdown checkbox items: - [ ] or - [x]
	taskLinePattern = regexp.MustCompile(`^[-*]\s*\[([ xX])\]\s+(.+)$`)
	// duePattern matches a due-date suffix in a milestone heading: (due: 2025-01-01)
	duePattern = regexp.MustCompile(`\s*\(due:?\s*([0-9-]+)\)$`)
	// metaLinePattern matches lines the parser reads as feature metadata,
	// with any number of escaping backslashes in front.
	metaLinePattern = regexp.MustCompile(`^\\*(?:Milestone|Labels|Assignees):`)
)

// syntheticFeatureTitle groups task checkboxes that appear outside any
// feature heading.
const syntheticFeatureTitle = "Tasks"

// MarkdownParser parses structured markdown roadmaps. Headings at
// MilestoneLevel mark milestone or feature boundaries: a heading followed by
// nested headings one level deeper is a milestone whose children are
// features, a heading with no nested headings is a standalone feature.
// Checkbox bullets become tasks of the enclosing feature; free text between
// headings becomes the enclosing entity's description.
//
// Input with no recognizable structure parses to an empty roadmap, never an
// error. Emptiness is a meaningful result: it triggers the caller's
// AI-extraction fallback.
type MarkdownParser struct {
	// MilestoneLevel is the heading level for milestone boundaries.
	// Features parse one level deeper. Default 2 (## milestones, ### features).
	MilestoneLevel int
}

// NewMarkdownParser creates a markdown parser with default heading levels.
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{MilestoneLevel: 2}
}

// CanParse returns true for markdown file extensions.
func (p *MarkdownParser) CanParse(ext string) bool {
	return ext == ".md" || ext == ".markdown"
}

// Format returns the primary format name for this parser.
func (p *MarkdownParser) Format() string {
	return FormatMarkdown
}

// mdHeading is an indexed heading used for the boundary lookahead.
type mdHeading struct {
	line  int
	level int
	text  string
}

// Parse parses a structured markdown roadmap.
func (p *MarkdownParser) Parse(filename string, content []byte) (*roadmap.Roadmap, error) {
	mLevel := p.MilestoneLevel
	if mLevel < 1 || mLevel > 5 {
		mLevel = 2
	}
	fLevel := mLevel + 1

	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	headings := scanHeadings(lines)

	r := &roadmap.Roadmap{}

	var (
		milestone *roadmap.Milestone // enclosing milestone, nil at top level
		feature   *roadmap.Feature   // feature collecting text and tasks
		orphans   []roadmap.Task     // tasks seen outside any feature
		preamble  []string           // text before the first boundary heading
		seenBody  bool               // a boundary heading has been passed
	)

	flushFeature := func() {
		if feature != nil {
			feature.Description = strings.TrimSpace(feature.Description)
			r.Features = append(r.Features, *feature)
			feature = nil
		}
	}

	for i, line := range lines {
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			level := len(m[1])
			text := m[2]

			switch {
			case level == 1 && r.Name == "" && !seenBody:
				r.Name = text

			case level == mLevel:
				flushFeature()
				seenBody = true
				name, due := splitDue(text)
				// A due-date suffix marks a milestone even when it has no
				// features yet; otherwise nested headings decide.
				if due != "" || hasChildHeading(headings, i, mLevel, fLevel) {
					r.Milestones = append(r.Milestones, roadmap.Milestone{Name: name, DueDate: due})
					milestone = &r.Milestones[len(r.Milestones)-1]
				} else {
					// No nested features: the block is a standalone feature.
					milestone = nil
					feature = &roadmap.Feature{Title: name}
				}

			case level == fLevel:
				flushFeature()
				seenBody = true
				feature = &roadmap.Feature{Title: text}
				if milestone != nil {
					feature.Milestone = milestone.Name
				}

			default:
				// Deeper headings are body text of the enclosing entity.
				if feature != nil {
					appendLine(&feature.Description, strings.TrimSpace(line))
				}
			}
			continue
		}

		trimmedLine := strings.TrimSpace(line)

		if m := taskLinePattern.FindStringSubmatch(trimmedLine); m != nil {
			task := roadmap.Task{
				Title:     strings.TrimSpace(m[2]),
				Completed: m[1] == "x" || m[1] == "X",
			}
			if feature != nil {
				feature.Tasks = append(feature.Tasks, task)
			} else {
				orphans = append(orphans, task)
			}
			continue
		}

		if trimmedLine == "" {
			continue
		}

		switch {
		case feature != nil:
			if !featureMeta(feature, trimmedLine) {
				appendLine(&feature.Description, unescapeMeta(trimmedLine))
			}
		case milestone != nil:
			if due, ok := strings.CutPrefix(trimmedLine, "Due:"); ok {
				milestone.DueDate = strings.TrimSpace(due)
			}
		case !seenBody:
			preamble = append(preamble, trimmedLine)
		}
	}
	flushFeature()

	if len(orphans) > 0 {
		r.Features = append(r.Features, roadmap.Feature{
			Title: syntheticFeatureTitle,
			Tasks: orphans,
		})
	}

	r.Description = strings.TrimSpace(strings.Join(preamble, "\n"))
	if r.Name == "" {
		base := filepath.Base(filename)
		r.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return r, nil
}

// featureMeta consumes a feature metadata line (Milestone:, Labels:,
// Assignees:) and reports whether the line was metadata.
func featureMeta(f *roadmap.Feature, line string) bool {
	if v, ok := strings.CutPrefix(line, "Milestone:"); ok {
		f.Milestone = strings.TrimSpace(v)
		return true
	}
	if v, ok := strings.CutPrefix(line, "Labels:"); ok {
		f.Labels = splitList(v)
		return true
	}
	if v, ok := strings.CutPrefix(line, "Assignees:"); ok {
		f.Assignees = splitList(v)
		return true
	}
	return false
}

// unescapeMeta strips one escaping backslash from a description line that
// would otherwise read as feature metadata. The writer adds the backslash so
// literal "Milestone:" text in descriptions survives a roundtrip.
func unescapeMeta(line string) string {
	if strings.HasPrefix(line, `\`) && metaLinePattern.MatchString(line[1:]) {
		return line[1:]
	}
	return line
}

// scanHeadings indexes all headings for the milestone/feature lookahead.
func scanHeadings(lines []string) []mdHeading {
	var hs []mdHeading
	for i, line := range lines {
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			hs = append(hs, mdHeading{line: i, level: len(m[1]), text: m[2]})
		}
	}
	return hs
}

// hasChildHeading reports whether a heading at childLevel occurs after the
// boundary heading at line bLine and before the next heading at boundLevel
// or shallower.
func hasChildHeading(headings []mdHeading, bLine, boundLevel, childLevel int) bool {
	for _, h := range headings {
		if h.line <= bLine {
			continue
		}
		if h.level <= boundLevel {
			return false
		}
		if h.level == childLevel {
			return true
		}
	}
	return false
}

// splitDue separates a "(due: 2025-01-01)" suffix from a milestone heading.
func splitDue(text string) (name, due string) {
	if m := duePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(text[:len(text)-len(m[0])]), m[1]
	}
	return text, ""
}

// splitList parses a comma-separated metadata value into a trimmed list.
func splitList(v string) []string {
	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// appendLine appends a line to a description, separating with a newline.
func appendLine(dst *string, line string) {
	if *dst == "" {
		*dst = line
		return
	}
	*dst += "\n" + line
}
