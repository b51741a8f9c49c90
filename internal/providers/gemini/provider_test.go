package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/biaslens/internal/providers"
)

func TestCompleteReturnsCandidateText(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-1.5-pro:generateContent"), r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Balanced approach."}]},"finishReason":"STOP"}]}`))
	}))
	defer server.Close()

	p := &Provider{apiKey: "test-key", baseURL: server.URL + "/", timeout: 5 * time.Second}
	out, err := p.Complete(context.Background(), providers.Request{
		Prompt:       "Summarize the season.",
		Model:        "gemini-1.5-pro",
		Temperature:  0.3,
		SystemPrompt: "Ground answers in data.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Balanced approach.", out)
	assert.Contains(t, got, "contents")
	assert.Contains(t, got, "systemInstruction")
}

func TestCompleteEmptyAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer server.Close()

	p := &Provider{apiKey: "test-key", baseURL: server.URL + "/", timeout: 5 * time.Second}
	out, err := p.Complete(context.Background(), providers.Request{Prompt: "x", Model: "gemini-1.5-pro"})
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestCompleteWithoutKey(t *testing.T) {
	p := &Provider{timeout: time.Second}
	_, err := p.Complete(context.Background(), providers.Request{Prompt: "x", Model: "gemini-1.5-pro"})
	assert.ErrorIs(t, err, providers.ErrMissingAPIKey)
}
