// internal/analysis/chisquare.go
package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// MinExpectedCount is the smallest expected cell count for which the chi-square
// approximation is trusted.
const MinExpectedCount = 5.0

// Contingency is a variant x focus table of observed counts.
type Contingency struct {
	Variants []string
	Labels   []string
	Counts   [][]float64
}

// Crosstab counts rows by variant and focus label. Only variants and labels
// that occur appear in the table, both sorted.
func Crosstab(rows []Row) Contingency {
	variants := Variants(rows)
	labelSet := make(map[string]bool)
	for _, r := range rows {
		labelSet[r.Focus] = true
	}
	labels := make([]string, 0, len(labelSet))
	for l := range labelSet {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	vIdx := indexOf(variants)
	lIdx := indexOf(labels)
	counts := make([][]float64, len(variants))
	for i := range counts {
		counts[i] = make([]float64, len(labels))
	}
	for _, r := range rows {
		counts[vIdx[r.Variant]][lIdx[r.Focus]]++
	}
	return Contingency{Variants: variants, Labels: labels, Counts: counts}
}

func indexOf(values []string) map[string]int {
	idx := make(map[string]int, len(values))
	for i, v := range values {
		idx[v] = i
	}
	return idx
}

// Caveat marks a cell whose expected count is below MinExpectedCount.
type Caveat struct {
	Variant  string
	Label    string
	Expected float64
}

// ChiSquareResult is the outcome of a chi-square test of independence.
type ChiSquareResult struct {
	Stat     float64
	P        float64
	DOF      int
	Expected [][]float64
	Caveats  []Caveat
}

// ChiSquare tests independence of variant and focus in table. With one degree
// of freedom the Yates continuity correction is applied. A table with zero
// degrees of freedom yields statistic 0 and p-value 1.
func ChiSquare(table Contingency) ChiSquareResult {
	rowsN, colsN := len(table.Counts), len(table.Labels)
	rowSums := make([]float64, rowsN)
	colSums := make([]float64, colsN)
	total := 0.0
	for i, row := range table.Counts {
		for j, v := range row {
			rowSums[i] += v
			colSums[j] += v
			total += v
		}
	}

	expected := make([][]float64, rowsN)
	var caveats []Caveat
	for i := range expected {
		expected[i] = make([]float64, colsN)
		for j := range expected[i] {
			if total > 0 {
				expected[i][j] = rowSums[i] * colSums[j] / total
			}
			if expected[i][j] < MinExpectedCount {
				caveats = append(caveats, Caveat{Variant: table.Variants[i], Label: table.Labels[j], Expected: expected[i][j]})
			}
		}
	}

	dof := 0
	if rowsN > 0 && colsN > 0 {
		dof = (rowsN - 1) * (colsN - 1)
	}
	res := ChiSquareResult{Stat: 0, P: 1, DOF: dof, Expected: expected, Caveats: caveats}
	if dof == 0 {
		return res
	}

	stat := 0.0
	for i, row := range table.Counts {
		for j, observed := range row {
			e := expected[i][j]
			if e == 0 {
				continue
			}
			if dof == 1 {
				diff := e - observed
				observed += math.Copysign(math.Min(0.5, math.Abs(diff)), diff)
			}
			d := observed - e
			stat += d * d / e
		}
	}
	res.Stat = stat
	res.P = distuv.ChiSquared{K: float64(dof)}.Survival(stat)
	return res
}
