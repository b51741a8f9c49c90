// internal/report/chi2.go
package report

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/mwiater/biaslens/internal/analysis"
	"github.com/mwiater/biaslens/internal/util"
)

// FormatChiSquare renders the test result, the expected counts, and one caveat
// line per cell whose expected count is below analysis.MinExpectedCount.
func FormatChiSquare(res analysis.ChiSquareResult, table analysis.Contingency) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "chi2=%.3f, p=%.4f, dof=%d\n", res.Stat, res.P, res.DOF)
	sb.WriteString("Expected counts:\n")

	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "variant\t%s\t\n", strings.Join(table.Labels, "\t"))
	for i, v := range table.Variants {
		cells := make([]string, 0, len(table.Labels))
		for _, e := range res.Expected[i] {
			cells = append(cells, fmt.Sprintf("%.2f", e))
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", v, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()

	if len(res.Caveats) > 0 {
		fmt.Fprintf(&sb, "Caveats (expected count < %g, chi-square approximation may be unreliable):\n", analysis.MinExpectedCount)
		for _, c := range res.Caveats {
			fmt.Fprintf(&sb, "- variant=%s focus=%s expected=%.2f\n", c.Variant, c.Label, c.Expected)
		}
	}
	return sb.String()
}

// WriteChiSquare writes FormatChiSquare output to path.
func WriteChiSquare(path string, res analysis.ChiSquareResult, table analysis.Contingency) error {
	return util.WriteFile(path, []byte(FormatChiSquare(res, table)))
}
