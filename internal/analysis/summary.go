// internal/analysis/summary.go
package analysis

import (
	"sort"

	"github.com/mwiater/biaslens/internal/metrics"
)

// SummaryRow holds sentiment statistics for one (hypothesis, variant) group.
type SummaryRow struct {
	Hypothesis string
	Variant    string
	N          int
	Mean       float64
	SD         float64 // sample standard deviation, NaN when N < 2
}

type groupKey struct {
	hypothesis string
	variant    string
}

// Summarize groups rows by (hypothesis, variant), ordered by hypothesis then variant.
func Summarize(rows []Row) []SummaryRow {
	stats := make(map[groupKey]*metrics.RunningStat)
	var keys []groupKey
	for _, r := range rows {
		k := groupKey{r.Hypothesis, r.Variant}
		rs, ok := stats[k]
		if !ok {
			rs = &metrics.RunningStat{}
			stats[k] = rs
			keys = append(keys, k)
		}
		rs.Add(r.Sentiment)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].hypothesis != keys[j].hypothesis {
			return keys[i].hypothesis < keys[j].hypothesis
		}
		return keys[i].variant < keys[j].variant
	})

	out := make([]SummaryRow, 0, len(keys))
	for _, k := range keys {
		rs := stats[k]
		out = append(out, SummaryRow{
			Hypothesis: k.hypothesis,
			Variant:    k.variant,
			N:          int(rs.Count),
			Mean:       rs.Mean,
			SD:         rs.StdDev(),
		})
	}
	return out
}
