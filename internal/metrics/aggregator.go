// internal/metrics/aggregator.go
package metrics

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/mwiater/biaslens/internal/logging"
	"github.com/mwiater/biaslens/internal/util"
)

// Aggregator collects call metrics per backend.
type Aggregator struct {
	mutex   sync.Mutex
	metrics map[string]*BackendMetrics
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{metrics: make(map[string]*BackendMetrics)}
}

// Record updates the metrics for backend with one finished call.
func (a *Aggregator) Record(backend, model string, latency time.Duration, err error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	m, exists := a.metrics[backend]
	if !exists {
		m = &BackendMetrics{Backend: backend}
		a.metrics[backend] = m
	}
	if model != "" {
		m.Model = model
	}
	m.LastUpdatedUTC = time.Now().UTC()
	m.Calls++
	if err != nil {
		m.Failures++
		return
	}
	m.LatencyMillis.Add(float64(latency) / float64(time.Millisecond))
}

// Snapshot returns a copy of all metrics ordered by backend name.
func (a *Aggregator) Snapshot() []BackendMetrics {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	out := make([]BackendMetrics, 0, len(a.metrics))
	for _, m := range a.metrics {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Backend < out[j].Backend })
	return out
}

// Save writes the snapshot to path as indented JSON.
func (a *Aggregator) Save(path string) error {
	logging.LogEvent("[METRICS] Saving metrics to %s", path)
	data, err := json.MarshalIndent(a.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	return util.WriteFile(path, data)
}
