// internal/providerfactory/factory.go
package providerfactory

import (
	"fmt"

	"github.com/mwiater/biaslens/internal/appconfig"
	"github.com/mwiater/biaslens/internal/logging"
	"github.com/mwiater/biaslens/internal/metrics"
	"github.com/mwiater/biaslens/internal/providers"
	"github.com/mwiater/biaslens/internal/providers/anthropic"
	"github.com/mwiater/biaslens/internal/providers/gemini"
	"github.com/mwiater/biaslens/internal/providers/llamacpp"
	"github.com/mwiater/biaslens/internal/providers/mock"
	"github.com/mwiater/biaslens/internal/providers/openai"
)

// NewRegistry registers every known backend with the model configured for it.
// When aggregator is non-nil each backend is wrapped with metrics collection.
func NewRegistry(cfg *appconfig.Config, aggregator *metrics.Aggregator) (*providers.Registry, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to provider factory")
	}

	registry := providers.NewRegistry()
	registry.Register("mock", cfg.ModelFor("mock"), mock.New(cfg.MockSeed))
	registry.Register("openai", cfg.ModelFor("openai"), openai.New(cfg))
	registry.Register("anthropic", cfg.ModelFor("anthropic"), anthropic.New(cfg))
	registry.Register("gemini", cfg.ModelFor("gemini"), gemini.New(cfg))
	registry.Register("llamacpp", cfg.ModelFor("llamacpp"), llamacpp.New(cfg))

	if aggregator != nil {
		registry.Wrap(func(name string, c providers.Completer) providers.Completer {
			return metrics.NewProvider(name, c, aggregator)
		})
	}
	logging.LogEvent("provider registry ready: %v", registry.Names())
	return registry, nil
}
