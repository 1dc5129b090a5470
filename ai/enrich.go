package ai

import (
	"context"
	"strings"

	"github.com/c360studio/gitscaffold/llm"
)

// Enricher expands terse issue titles into full issue bodies.
type Enricher struct {
	client      Completer
	temperature float64
	maxTokens   int
}

// NewEnricher creates an enricher over the given completer.
func NewEnricher(c Completer) *Enricher {
	return &Enricher{
		client:      c,
		temperature: 0.7,
		maxTokens:   2048,
	}
}

// Enrich generates a detailed issue body for title. The existing body and
// any surrounding roadmap context are passed to the model so the result
// stays consistent with the rest of the project. Returns the generated
// markdown body.
func (e *Enricher) Enrich(ctx context.Context, title, existing, background string) (string, error) {
	var b strings.Builder
	b.WriteString("Write a detailed GitHub issue body for the issue titled ")
	b.WriteString("\"" + title + "\".\n\n")
	b.WriteString("Structure the body with these sections: Background, Scope of Work, " +
		"Acceptance Criteria, Implementation Outline, and a task Checklist.\n")
	if existing != "" {
		b.WriteString("\nExisting notes to incorporate:\n" + existing + "\n")
	}
	if background != "" {
		b.WriteString("\nProject context:\n" + background + "\n")
	}
	b.WriteString("\nOutput the issue body in Markdown only, without a title heading and without extra commentary.\n")

	resp, err := e.client.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: "You are a senior software engineer writing precise, actionable GitHub issues."},
			{Role: "user", Content: b.String()},
		},
		Temperature: &e.temperature,
		MaxTokens:   e.maxTokens,
	})
	if err != nil {
		return "", &ExtractionError{Stage: "complete", Err: err}
	}

	body := strings.TrimSpace(resp.Content)
	body = strings.TrimPrefix(body, "```markdown\n")
	body = strings.TrimPrefix(body, "```\n")
	body = strings.TrimSuffix(body, "\n```")
	return strings.TrimSpace(body), nil
}
