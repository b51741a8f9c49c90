// internal/providers/llamacpp/provider.go
// Package llamacpp provides a Completer backed by llama.cpp's OpenAI-compatible HTTP API.
package llamacpp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/biaslens/internal/appconfig"
	"github.com/mwiater/biaslens/internal/logging"
	"github.com/mwiater/biaslens/internal/providers"
)

const backendName = "llamacpp"

// Provider implements providers.Completer using a llama.cpp server.
type Provider struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

// New constructs a Provider configured with the application's request timeout and server URL.
func New(cfg *appconfig.Config) *Provider {
	timeout := cfg.RequestTimeout()
	return &Provider{
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.LlamaCppURL), "/"),
		timeout: timeout,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends one non-streaming chat completion request.
func (p *Provider) Complete(ctx context.Context, req providers.Request) (string, error) {
	messages := buildMessages(req.SystemPrompt, req.Prompt)
	payload := map[string]any{
		"model":       req.Model,
		"messages":    messages,
		"stream":      false,
		"temperature": req.Temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", providers.Wrap(backendName, err)
	}
	logging.LogCall("BIASLENS->LLM", backendName, req.Model, body)

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	endpoint := p.baseURL + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", providers.Wrap(backendName, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", providers.Wrap(backendName, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", providers.Wrap(backendName, err)
	}
	logging.LogCall("LLM->BIASLENS", backendName, req.Model, raw)

	if resp.StatusCode != http.StatusOK {
		return "", providers.Wrap(backendName, fmt.Errorf("/v1/chat/completions returned %s: %s", resp.Status, strings.TrimSpace(string(raw))))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", providers.Wrap(backendName, err)
	}
	if len(parsed.Choices) == 0 {
		return "", providers.Wrap(backendName, providers.ErrEmptyCompletion)
	}
	return parsed.Choices[0].Message.Content, nil
}

func buildMessages(systemPrompt, prompt string) []chatMessage {
	messages := make([]chatMessage, 0, 2)
	if s := strings.TrimSpace(systemPrompt); s != "" {
		messages = append(messages, chatMessage{Role: "system", Content: s})
	}
	return append(messages, chatMessage{Role: "user", Content: prompt})
}
