// internal/providers/anthropic/provider.go
// Package anthropic provides a Completer backed by the Anthropic Messages API.
package anthropic

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mwiater/biaslens/internal/appconfig"
	"github.com/mwiater/biaslens/internal/logging"
	"github.com/mwiater/biaslens/internal/providers"
)

const (
	backendName = "anthropic"
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv = "ANTHROPIC_API_KEY"
	maxTokens = 800
)

// Provider implements providers.Completer for Anthropic models.
type Provider struct {
	client  *anthropic.Client
	timeout time.Duration
}

// New builds a Provider from the environment key. A missing key is reported on each call.
func New(cfg *appconfig.Config) *Provider {
	return newProvider(os.Getenv(APIKeyEnv), cfg.RequestTimeout())
}

func newProvider(apiKey string, timeout time.Duration, opts ...option.RequestOption) *Provider {
	p := &Provider{timeout: timeout}
	if strings.TrimSpace(apiKey) == "" {
		return p
	}
	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	p.client = &client
	return p
}

// Complete sends the prompt as one user turn and joins the returned text blocks.
func (p *Provider) Complete(ctx context.Context, req providers.Request) (string, error) {
	if p.client == nil {
		return "", providers.Wrap(backendName, providers.ErrMissingAPIKey)
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if s := strings.TrimSpace(req.SystemPrompt); s != "" {
		params.System = []anthropic.TextBlockParam{{Text: s}}
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	logging.LogCall("BIASLENS->LLM", backendName, req.Model, req.Prompt)
	msg, err := p.client.Messages.New(callCtx, params)
	if err != nil {
		return "", providers.Wrap(backendName, err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", providers.Wrap(backendName, providers.ErrEmptyCompletion)
	}
	logging.LogCall("LLM->BIASLENS", backendName, req.Model, sb.String())
	return sb.String(), nil
}
