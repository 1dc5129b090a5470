package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/gitscaffold/llm"
)

// cannedCompleter returns a fixed response or error and records the request.
type cannedCompleter struct {
	content string
	err     error
	lastReq llm.Request
}

func (c *cannedCompleter) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	c.lastReq = req
	if c.err != nil {
		return nil, c.err
	}
	return &llm.Response{Content: c.content}, nil
}

func TestExtract(t *testing.T) {
	completer := &cannedCompleter{
		content: "```json\n[" +
			`{"title": "Fix login", "description": "Sessions expire", "labels": ["bug"]},` +
			`{"title": "# Add docs"},` +
			`{"title": "   "},` +
			`{"description": "no title"}` +
			"]\n```",
	}

	candidates, err := NewExtractor(completer).Extract(context.Background(), "some notes")
	require.NoError(t, err)

	require.Len(t, candidates, 2, "entries without a usable title are dropped")
	assert.Equal(t, "Fix login", candidates[0].Title)
	assert.Equal(t, "Sessions expire", candidates[0].Description)
	assert.Equal(t, []string{"bug"}, candidates[0].Labels)
	assert.Equal(t, "Add docs", candidates[1].Title, "leading heading markers stripped")
}

func TestExtractSendsDocument(t *testing.T) {
	completer := &cannedCompleter{content: `[{"title": "A"}]`}

	_, err := NewExtractor(completer).Extract(context.Background(), "the project notes")
	require.NoError(t, err)

	require.Len(t, completer.lastReq.Messages, 2)
	assert.Equal(t, "system", completer.lastReq.Messages[0].Role)
	assert.Contains(t, completer.lastReq.Messages[1].Content, "the project notes")
	assert.Contains(t, completer.lastReq.Messages[1].Content, "JSON array only")
}

func TestExtractOptions(t *testing.T) {
	completer := &cannedCompleter{content: `[{"title": "A"}]`}

	e := NewExtractor(completer, WithTemperature(0.1), WithMaxTokens(256))
	_, err := e.Extract(context.Background(), "notes")
	require.NoError(t, err)

	require.NotNil(t, completer.lastReq.Temperature)
	assert.Equal(t, 0.1, *completer.lastReq.Temperature)
	assert.Equal(t, 256, completer.lastReq.MaxTokens)
}

func TestExtractNoArray(t *testing.T) {
	completer := &cannedCompleter{content: "I could not find any issues, sorry."}

	_, err := NewExtractor(completer).Extract(context.Background(), "notes")
	require.Error(t, err)
	assert.True(t, IsExtractionError(err))
	assert.Contains(t, err.Error(), "parse")
}

func TestExtractMalformedArray(t *testing.T) {
	completer := &cannedCompleter{content: `[{"title": 42}]`}

	_, err := NewExtractor(completer).Extract(context.Background(), "notes")
	require.Error(t, err)
	assert.True(t, IsExtractionError(err))
}

func TestExtractProviderFailure(t *testing.T) {
	cause := errors.New("connection refused")
	completer := &cannedCompleter{err: cause}

	_, err := NewExtractor(completer).Extract(context.Background(), "notes")
	require.Error(t, err)
	assert.True(t, IsExtractionError(err))
	assert.ErrorIs(t, err, cause)
}

func TestWrap(t *testing.T) {
	r := Wrap("notes", []Candidate{
		{Title: "A", Description: "da", Labels: []string{"bug"}},
		{Title: "B", Assignees: []string{"alice"}},
	})

	assert.Equal(t, "notes", r.Name)
	assert.Empty(t, r.Milestones)
	require.Len(t, r.Features, 2)
	assert.Equal(t, "A", r.Features[0].Title)
	assert.Empty(t, r.Features[0].Milestone)
	assert.Equal(t, []string{"alice"}, r.Features[1].Assignees)
}
