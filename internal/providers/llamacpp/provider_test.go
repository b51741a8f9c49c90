// internal/providers/llamacpp/provider_test.go
package llamacpp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mwiater/biaslens/internal/appconfig"
	"github.com/mwiater/biaslens/internal/providers"
)

func TestProviderComplete(t *testing.T) {
	t.Parallel()

	var capturedBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		capturedBody = body
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"test-model","choices":[{"message":{"role":"assistant","content":"final"}}]}`))
	}))
	defer server.Close()

	cfg := &appconfig.Config{TimeoutSeconds: 5, LlamaCppURL: server.URL + "/"}
	provider := New(cfg)

	out, err := provider.Complete(context.Background(), providers.Request{
		Prompt:       "Who leads in goals?",
		Model:        "test-model",
		Temperature:  0.3,
		SystemPrompt: "Be concise.",
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if out != "final" {
		t.Fatalf("unexpected completion: %q", out)
	}

	var payload struct {
		Model       string        `json:"model"`
		Stream      bool          `json:"stream"`
		Temperature float64       `json:"temperature"`
		Messages    []chatMessage `json:"messages"`
	}
	if err := json.Unmarshal(capturedBody, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Stream {
		t.Fatalf("expected stream=false")
	}
	if payload.Model != "test-model" || payload.Temperature != 0.3 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if len(payload.Messages) != 2 || payload.Messages[0].Role != "system" || payload.Messages[1].Content != "Who leads in goals?" {
		t.Fatalf("unexpected messages: %+v", payload.Messages)
	}
}

func TestProviderCompleteHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad model"}`))
	}))
	defer server.Close()

	provider := New(&appconfig.Config{TimeoutSeconds: 5, LlamaCppURL: server.URL})
	_, err := provider.Complete(context.Background(), providers.Request{Prompt: "x"})
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	var pe *providers.Error
	if !errors.As(err, &pe) || pe.Backend != "llamacpp" {
		t.Fatalf("expected llamacpp provider error, got %v", err)
	}
	if !strings.Contains(err.Error(), "bad model") {
		t.Fatalf("expected body in error, got %v", err)
	}
}

func TestProviderCompleteNoChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	provider := New(&appconfig.Config{TimeoutSeconds: 5, LlamaCppURL: server.URL})
	_, err := provider.Complete(context.Background(), providers.Request{Prompt: "x"})
	if !errors.Is(err, providers.ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}

func TestBuildMessagesSkipsBlankSystemPrompt(t *testing.T) {
	msgs := buildMessages("  ", "hello")
	if len(msgs) != 1 || msgs[0].Role != "user" {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
}
