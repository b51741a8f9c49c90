// internal/providers/openai/provider.go
// Package openai provides a Completer backed by the OpenAI chat completions API.
package openai

import (
	"context"
	"os"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/mwiater/biaslens/internal/appconfig"
	"github.com/mwiater/biaslens/internal/logging"
	"github.com/mwiater/biaslens/internal/providers"
)

const (
	backendName = "openai"
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv = "OPENAI_API_KEY"
)

// Provider implements providers.Completer for OpenAI.
type Provider struct {
	client  *goopenai.Client
	timeout time.Duration
}

// New builds a Provider from the environment key. A missing key is reported on each call.
func New(cfg *appconfig.Config) *Provider {
	return newProvider(os.Getenv(APIKeyEnv), "", cfg.RequestTimeout())
}

func newProvider(apiKey, baseURL string, timeout time.Duration) *Provider {
	p := &Provider{timeout: timeout}
	if strings.TrimSpace(apiKey) == "" {
		return p
	}
	config := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	p.client = goopenai.NewClientWithConfig(config)
	return p
}

// Complete sends the prompt as a single user message.
func (p *Provider) Complete(ctx context.Context, req providers.Request) (string, error) {
	if p.client == nil {
		return "", providers.Wrap(backendName, providers.ErrMissingAPIKey)
	}

	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if s := strings.TrimSpace(req.SystemPrompt); s != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleSystem, Content: s})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser, Content: req.Prompt})

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	chatReq := goopenai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
	}
	logging.LogCall("BIASLENS->LLM", backendName, req.Model, chatReq)

	resp, err := p.client.CreateChatCompletion(callCtx, chatReq)
	if err != nil {
		return "", providers.Wrap(backendName, err)
	}
	if len(resp.Choices) == 0 {
		return "", providers.Wrap(backendName, providers.ErrEmptyCompletion)
	}
	content := resp.Choices[0].Message.Content
	logging.LogCall("LLM->BIASLENS", backendName, req.Model, content)
	return content, nil
}
