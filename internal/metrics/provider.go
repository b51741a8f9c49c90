// internal/metrics/provider.go
package metrics

import (
	"context"
	"time"

	"github.com/mwiater/biaslens/internal/providers"
)

// Provider is a decorator that wraps a Completer to record call metrics.
type Provider struct {
	backend    string
	wrapped    providers.Completer
	aggregator *Aggregator
}

// NewProvider creates a metrics-enabled Completer that wraps an existing one.
func NewProvider(backend string, wrapped providers.Completer, aggregator *Aggregator) *Provider {
	return &Provider{backend: backend, wrapped: wrapped, aggregator: aggregator}
}

// Complete times the wrapped call and records its outcome.
func (p *Provider) Complete(ctx context.Context, req providers.Request) (string, error) {
	start := time.Now()
	out, err := p.wrapped.Complete(ctx, req)
	if p.aggregator != nil {
		p.aggregator.Record(p.backend, req.Model, time.Since(start), err)
	}
	return out, err
}
