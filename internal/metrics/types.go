// internal/metrics/types.go
package metrics

import (
	"math"
	"time"
)

// BackendMetrics is the aggregated call record for one backend.
type BackendMetrics struct {
	Backend        string      `json:"backend"`
	Model          string      `json:"model"`
	LastUpdatedUTC time.Time   `json:"last_updated_utc"`
	Calls          int64       `json:"calls"`
	Failures       int64       `json:"failures"`
	LatencyMillis  RunningStat `json:"latency_ms"`
}

// RunningStat holds the necessary values for online calculation of mean, variance, and stddev.
type RunningStat struct {
	Count int64   `json:"count"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"-"` // Sum of squares of differences from the current mean
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Add folds value into the statistic using Welford's online algorithm.
func (rs *RunningStat) Add(value float64) {
	rs.Count++
	if rs.Count == 1 {
		rs.Min = value
		rs.Max = value
	} else {
		if value < rs.Min {
			rs.Min = value
		}
		if value > rs.Max {
			rs.Max = value
		}
	}

	delta := value - rs.Mean
	rs.Mean += delta / float64(rs.Count)
	delta2 := value - rs.Mean
	rs.M2 += delta * delta2
}

// Variance returns the sample variance, or NaN with fewer than two values.
func (rs RunningStat) Variance() float64 {
	if rs.Count < 2 {
		return math.NaN()
	}
	return rs.M2 / float64(rs.Count-1)
}

// StdDev returns the sample standard deviation, or NaN with fewer than two values.
func (rs RunningStat) StdDev() float64 {
	return math.Sqrt(rs.Variance())
}
