// Package ai adapts LLM completion into roadmap operations: extracting
// candidate issues from free-form markdown and enriching issue bodies. The
// adapter is non-deterministic and fallible by nature; failures surface as
// ExtractionError and the caller decides whether to retry or fall back to
// structured-only results.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/c360studio/gitscaffold/llm"
	"github.com/c360studio/gitscaffold/roadmap"
)

// Completer is the slice of the llm client the adapters need. Satisfied by
// *llm.Client; tests inject canned responses.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// Candidate is one extracted issue candidate.
type Candidate struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	Assignees   []string `json:"assignees,omitempty"`
}

// ExtractionError wraps an AI adapter failure: provider errors, quota, or
// model output that cannot be parsed.
type ExtractionError struct {
	Stage string // "complete" or "parse"
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("ai extraction (%s): %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// IsExtractionError reports whether err is (or wraps) an ExtractionError.
func IsExtractionError(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee)
}

const extractSystemPrompt = "You are an expert software project planner."

// Extractor turns free-form markdown into issue candidates.
type Extractor struct {
	client      Completer
	temperature float64
	maxTokens   int
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ExtractorOption {
	return func(e *Extractor) {
		e.temperature = t
	}
}

// WithMaxTokens sets the response token limit.
func WithMaxTokens(n int) ExtractorOption {
	return func(e *Extractor) {
		e.maxTokens = n
	}
}

// NewExtractor creates an extractor over the given completer.
func NewExtractor(c Completer, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		client:      c,
		temperature: 0.5,
		maxTokens:   4096,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract asks the model to pull actionable issues out of free-form
// markdown. Candidates without a title are dropped; leading markdown
// heading markers are stripped from titles.
func (e *Extractor) Extract(ctx context.Context, text string) ([]Candidate, error) {
	prompt := "Given the following project notes in Markdown, extract all actionable issues. " +
		"For each issue, return an object with 'title' and 'description'. " +
		"Output a JSON array only, without extra text.\n\n```markdown\n" + text + "\n```\n"

	resp, err := e.client.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: extractSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: &e.temperature,
		MaxTokens:   e.maxTokens,
	})
	if err != nil {
		return nil, &ExtractionError{Stage: "complete", Err: err}
	}

	raw := llm.ExtractJSONArray(resp.Content)
	if raw == "" {
		return nil, &ExtractionError{Stage: "parse", Err: fmt.Errorf("no JSON array in model output")}
	}

	var items []Candidate
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, &ExtractionError{Stage: "parse", Err: fmt.Errorf("decode candidates: %w", err)}
	}

	candidates := make([]Candidate, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(strings.TrimLeft(item.Title, "# "))
		if title == "" {
			continue
		}
		item.Title = title
		candidates = append(candidates, item)
	}
	return candidates, nil
}

// Wrap converts extracted candidates into a roadmap of synthetic features
// with no milestone, the shape the reconciliation engine consumes.
func Wrap(name string, candidates []Candidate) *roadmap.Roadmap {
	r := &roadmap.Roadmap{Name: name}
	for _, c := range candidates {
		r.Features = append(r.Features, roadmap.Feature{
			Title:       c.Title,
			Description: c.Description,
			Labels:      c.Labels,
			Assignees:   c.Assignees,
		})
	}
	r.Link()
	return r
}
