// internal/analysis/ttest.go
package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TestRow is the Welch t-test between the two variants of one hypothesis.
type TestRow struct {
	Hypothesis string
	V1         string
	V2         string
	TStat      float64
	PValue     float64
	MeanV1     float64
	MeanV2     float64
	NV1        int
	NV2        int
}

// WelchResult is the outcome of a two-sample t-test without the equal-variance assumption.
type WelchResult struct {
	T  float64
	P  float64 // two-tailed
	DF float64
}

// WelchTTest compares the means of a and b. It reports NaN for samples smaller
// than two or when both samples have zero variance.
func WelchTTest(a, b []float64) WelchResult {
	nan := WelchResult{T: math.NaN(), P: math.NaN(), DF: math.NaN()}
	if len(a) < 2 || len(b) < 2 {
		return nan
	}
	m1, v1 := stat.MeanVariance(a, nil)
	m2, v2 := stat.MeanVariance(b, nil)
	n1, n2 := float64(len(a)), float64(len(b))

	s1, s2 := v1/n1, v2/n2
	se2 := s1 + s2
	if se2 <= 0 || math.IsNaN(se2) {
		return nan
	}
	t := (m1 - m2) / math.Sqrt(se2)
	df := se2 * se2 / (s1*s1/(n1-1) + s2*s2/(n2-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.Survival(math.Abs(t))
	return WelchResult{T: t, P: math.Min(1, p), DF: df}
}

// PairwiseTests runs WelchTTest for every hypothesis with exactly two variants.
// Other hypotheses produce no row. Variants are ordered so that V1 < V2.
func PairwiseTests(rows []Row) []TestRow {
	byHypothesis := make(map[string]map[string][]float64)
	for _, r := range rows {
		groups, ok := byHypothesis[r.Hypothesis]
		if !ok {
			groups = make(map[string][]float64)
			byHypothesis[r.Hypothesis] = groups
		}
		groups[r.Variant] = append(groups[r.Variant], r.Sentiment)
	}

	hypotheses := make([]string, 0, len(byHypothesis))
	for h := range byHypothesis {
		hypotheses = append(hypotheses, h)
	}
	sort.Strings(hypotheses)

	var out []TestRow
	for _, h := range hypotheses {
		groups := byHypothesis[h]
		if len(groups) != 2 {
			continue
		}
		variants := make([]string, 0, 2)
		for v := range groups {
			variants = append(variants, v)
		}
		sort.Strings(variants)
		s1, s2 := groups[variants[0]], groups[variants[1]]
		res := WelchTTest(s1, s2)
		out = append(out, TestRow{
			Hypothesis: h,
			V1:         variants[0],
			V2:         variants[1],
			TStat:      res.T,
			PValue:     res.P,
			MeanV1:     stat.Mean(s1, nil),
			MeanV2:     stat.Mean(s2, nil),
			NV1:        len(s1),
			NV2:        len(s2),
		})
	}
	return out
}
