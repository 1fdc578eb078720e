package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qwikplan/backend/pkg/logger"
	"github.com/qwikplan/backend/pkg/plan"
)

func testRequest() plan.Request {
	return plan.Request{
		Niche:    "fitness",
		Platform: "Instagram",
		Goal:     "grow followers",
		Days:     plan.DemoDays,
	}
}

func newStubServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestGenerateNotConfigured(t *testing.T) {
	c := NewGroqClient(Config{}, logger.Discard())

	_, err := c.Generate(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGenerateReturnsFirstChoice(t *testing.T) {
	ts := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama-3.1-8b-instant", body["model"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `{"strategy":"s"}`}},
			},
			"usage": map[string]int{"total_tokens": 100},
		})
	})

	c := NewGroqClient(Config{APIKey: "test-key", BaseURL: ts.URL}, logger.Discard())

	out, err := c.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, `{"strategy":"s"}`, out)
}

func TestGenerateUpstream429(t *testing.T) {
	ts := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limit exceeded", "type": "tokens"},
		})
	})

	c := NewGroqClient(Config{APIKey: "test-key", BaseURL: ts.URL}, logger.Discard())

	_, err := c.Generate(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrUpstreamRateLimited)
}

func TestGenerateUpstreamServerError(t *testing.T) {
	ts := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	c := NewGroqClient(Config{APIKey: "test-key", BaseURL: ts.URL}, logger.Discard())

	_, err := c.Generate(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGenerateEmptyChoices(t *testing.T) {
	ts := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	c := NewGroqClient(Config{APIKey: "test-key", BaseURL: ts.URL}, logger.Discard())

	_, err := c.Generate(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGenerateTimeout(t *testing.T) {
	ts := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	c := NewGroqClient(Config{
		APIKey:  "test-key",
		BaseURL: ts.URL,
		Timeout: 50 * time.Millisecond,
	}, logger.Discard())

	_, err := c.Generate(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrUnavailable)
}
