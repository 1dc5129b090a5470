package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/gitscaffold/roadmap"
)

// FormatYAML is the format name of the structured YAML/JSON parser.
const FormatYAML = "yaml"

// YAMLParser deserializes YAML or JSON roadmaps directly into the roadmap
// schema. JSON is parsed by the same decoder (YAML 1.2 is a JSON superset).
// Unknown fields and type mismatches (a milestone that is not a mapping,
// tasks that are not a sequence) fail with a ParseError carrying the
// offending line; an empty document parses to an empty roadmap.
type YAMLParser struct{}

// NewYAMLParser creates a YAML/JSON roadmap parser.
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// CanParse returns true for YAML and JSON file extensions.
func (p *YAMLParser) CanParse(ext string) bool {
	switch ext {
	case ".yml", ".yaml", ".json":
		return true
	default:
		return false
	}
}

// Format returns the primary format name for this parser.
func (p *YAMLParser) Format() string {
	return FormatYAML
}

// Parse deserializes a YAML or JSON roadmap document.
func (p *YAMLParser) Parse(filename string, content []byte) (*roadmap.Roadmap, error) {
	var r roadmap.Roadmap

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	if err := dec.Decode(&r); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty document: a valid, meaningful result.
			return &roadmap.Roadmap{}, nil
		}
		return nil, &ParseError{
			Path: filename,
			Line: yamlErrorLine(err),
			Err:  fmt.Errorf("decode roadmap: %w", err),
		}
	}

	return &r, nil
}

// yamlErrorLine extracts the first line number from a yaml.v3 error, or 0.
func yamlErrorLine(err error) int {
	var te *yaml.TypeError
	if errors.As(err, &te) && len(te.Errors) > 0 {
		// TypeError messages begin "line N: ..."; recover N.
		var line int
		if _, scanErr := fmt.Sscanf(te.Errors[0], "line %d:", &line); scanErr == nil {
			return line
		}
	}
	return 0
}
