// internal/providers/gemini/provider.go
// Package gemini provides a Completer backed by the Google Gemini API.
package gemini

import (
	"context"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/mwiater/biaslens/internal/appconfig"
	"github.com/mwiater/biaslens/internal/logging"
	"github.com/mwiater/biaslens/internal/providers"
)

const (
	backendName = "gemini"
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv = "GOOGLE_API_KEY"
)

// Provider implements providers.Completer for Gemini models. The client is
// created on first use because construction needs a context.
type Provider struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	client  *genai.Client
}

// New builds a Provider from the environment key. A missing key is reported on each call.
func New(cfg *appconfig.Config) *Provider {
	return &Provider{apiKey: os.Getenv(APIKeyEnv), timeout: cfg.RequestTimeout()}
}

func (p *Provider) ensureClient(ctx context.Context) error {
	if p.client != nil {
		return nil
	}
	if strings.TrimSpace(p.apiKey) == "" {
		return providers.ErrMissingAPIKey
	}
	cc := &genai.ClientConfig{APIKey: p.apiKey, Backend: genai.BackendGeminiAPI}
	if p.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return err
	}
	p.client = client
	return nil
}

// Complete sends the prompt, with the system prompt as a system instruction.
func (p *Provider) Complete(ctx context.Context, req providers.Request) (string, error) {
	if err := p.ensureClient(ctx); err != nil {
		return "", providers.Wrap(backendName, err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if s := strings.TrimSpace(req.SystemPrompt); s != "" {
		config.SystemInstruction = genai.NewContentFromText(s, genai.RoleUser)
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	logging.LogCall("BIASLENS->LLM", backendName, req.Model, req.Prompt)
	resp, err := p.client.Models.GenerateContent(callCtx, req.Model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", providers.Wrap(backendName, err)
	}
	// An answer without text (e.g. blocked by safety filters) is recorded as empty.
	text := resp.Text()
	logging.LogCall("LLM->BIASLENS", backendName, req.Model, text)
	return text, nil
}
