package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider is a minimal OpenAI-flavored provider for client tests.
type stubProvider struct{}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) BuildURL(baseURL string) string { return baseURL }

func (s *stubProvider) SetHeaders(req *http.Request) {}

func (s *stubProvider) BuildRequestBody(model string, messages []Message, temperature *float64, maxTokens int) ([]byte, error) {
	return json.Marshal(map[string]any{"model": model, "messages": messages})
}

func (s *stubProvider) ParseResponse(body []byte, model string) (*Response, error) {
	var parsed struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, NewFatalError(err)
	}
	return &Response{Content: parsed.Content, Model: model}, nil
}

func init() {
	RegisterProvider(&stubProvider{})
}

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       time.Millisecond,
		BackoffMultiplier: 2.0,
		MaxBackoff:        10 * time.Millisecond,
	}
}

func testRequest() Request {
	return Request{Messages: []Message{{Role: "user", Content: "hi"}}}
}

func TestClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content": "hello"}`)
	}))
	defer srv.Close()

	client := NewClient([]Endpoint{{Provider: "stub", Model: "m1", URL: srv.URL}})

	resp, err := client.Complete(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, "m1", resp.Model)
	assert.NotEmpty(t, resp.RequestID)
}

func TestClientRetriesTransient(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"content": "eventually"}`)
	}))
	defer srv.Close()

	client := NewClient([]Endpoint{{Provider: "stub", Model: "m1", URL: srv.URL}},
		WithRetryConfig(fastRetry()))

	resp, err := client.Complete(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "eventually", resp.Content)
	assert.Equal(t, 3, attempts)
}

func TestClientFatalNotRetried(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient([]Endpoint{{Provider: "stub", Model: "m1", URL: srv.URL}},
		WithRetryConfig(fastRetry()))

	_, err := client.Complete(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.Equal(t, 1, attempts, "fatal errors stop retries immediately")
}

func TestClientFallsBackToNextEndpoint(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer bad.Close()

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content": "fallback"}`)
	}))
	defer good.Close()

	client := NewClient([]Endpoint{
		{Provider: "stub", Model: "primary", URL: bad.URL},
		{Provider: "stub", Model: "secondary", URL: good.URL},
	}, WithRetryConfig(fastRetry()))

	resp, err := client.Complete(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "fallback", resp.Content)
	assert.Equal(t, "secondary", resp.Model)
}

func TestClientAllEndpointsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient([]Endpoint{{Provider: "stub", Model: "m1", URL: srv.URL}},
		WithRetryConfig(fastRetry()))

	_, err := client.Complete(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all endpoints failed")
}

func TestClientValidation(t *testing.T) {
	client := NewClient([]Endpoint{{Provider: "stub", Model: "m1"}})

	_, err := client.Complete(context.Background(), Request{})
	assert.ErrorContains(t, err, "at least one message")

	empty := NewClient(nil)
	_, err = empty.Complete(context.Background(), testRequest())
	assert.ErrorContains(t, err, "no endpoints")
}

func TestClientUnknownProvider(t *testing.T) {
	client := NewClient([]Endpoint{{Provider: "nope", Model: "m1"}})

	_, err := client.Complete(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestBackoffBounds(t *testing.T) {
	rc := RetryConfig{
		MaxAttempts:       5,
		BackoffBase:       time.Second,
		BackoffMultiplier: 2.0,
		MaxBackoff:        4 * time.Second,
	}

	for attempt := 1; attempt <= 5; attempt++ {
		b := rc.Backoff(attempt)
		// Jitter is +/- 25% of the capped backoff.
		assert.GreaterOrEqual(t, b, 750*time.Millisecond)
		assert.LessOrEqual(t, b, 5*time.Second)
	}
}
