// Package parser converts roadmap documents into the canonical roadmap model.
// Structured Markdown and YAML/JSON parsers are registered here; free-form
// documents go through the AI extraction adapter instead.
package parser

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/c360studio/gitscaffold/roadmap"
)

// Parser defines the interface for roadmap format parsers.
type Parser interface {
	// Parse parses a roadmap document. Structurally empty input is a valid
	// result (an empty roadmap), not an error.
	Parse(filename string, content []byte) (*roadmap.Roadmap, error)

	// CanParse returns true if this parser handles the given file extension.
	CanParse(ext string) bool

	// Format returns the primary format name for this parser.
	Format() string
}

// Registry manages roadmap parsers.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser // keyed by format name
}

// DefaultRegistry is the global parser registry with default parsers.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a parser registry with the default parsers.
func NewRegistry() *Registry {
	r := &Registry{
		parsers: make(map[string]Parser),
	}

	r.Register(NewMarkdownParser())
	r.Register(NewYAMLParser())

	return r
}

// Register adds a parser to the registry.
func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[p.Format()] = p
}

// Get returns the parser for a format name, or nil.
func (r *Registry) Get(format string) Parser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.parsers[format]
}

// ForFile returns the parser for a file based on its extension, or nil when
// no registered parser claims the extension.
func (r *Registry) ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.parsers {
		if p.CanParse(ext) {
			return p
		}
	}
	return nil
}

// ParseFile parses content with the parser matching the filename, links task
// back-references, and returns the roadmap. Unknown extensions fall back to
// the markdown parser, matching how unannotated plan files are usually
// written.
func ParseFile(filename string, content []byte) (*roadmap.Roadmap, error) {
	return ParseFileLevel(filename, content, 0)
}

// ParseFileLevel is ParseFile with an explicit milestone heading level for
// markdown input. Level 0 keeps the parser's default; structured formats
// ignore the level. Callers with a configured heading level must use this
// variant, otherwise parsing and write-back disagree about the layout.
func ParseFileLevel(filename string, content []byte, milestoneLevel int) (*roadmap.Roadmap, error) {
	p := DefaultRegistry.ForFile(filename)
	if p == nil {
		p = DefaultRegistry.Get(FormatMarkdown)
	}
	if milestoneLevel > 0 && p.Format() == FormatMarkdown {
		p = &MarkdownParser{MilestoneLevel: milestoneLevel}
	}

	r, err := p.Parse(filename, content)
	if err != nil {
		return nil, err
	}
	r.Link()
	return r, nil
}
