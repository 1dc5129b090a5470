package roadmap

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultGlobs are the patterns tried in order when no roadmap path is
// given explicitly.
var DefaultGlobs = []string{
	"ROADMAP.md",
	"roadmap.md",
	"roadmap.{yml,yaml,json}",
	"docs/**/ROADMAP*.md",
}

// Discover locates a roadmap file under root by trying each glob pattern in
// order and returning the first match. Matches within a pattern are sorted
// so discovery is deterministic.
func Discover(root string, patterns []string) (string, error) {
	if len(patterns) == 0 {
		patterns = DefaultGlobs
	}

	fsys := os.DirFS(root)
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return "", fmt.Errorf("glob %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			continue
		}
		sort.Strings(matches)
		return matches[0], nil
	}

	return "", fmt.Errorf("no roadmap file found under %s (patterns: %v)", root, patterns)
}
