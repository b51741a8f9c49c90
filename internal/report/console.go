// internal/report/console.go
package report

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mwiater/biaslens/internal/analysis"
	"github.com/mwiater/biaslens/internal/metrics"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// RenderSummary draws the grouped sentiment summary as a table.
func RenderSummary(summary []analysis.SummaryRow) string {
	rows := make([][]string, 0, len(summary))
	for _, s := range summary {
		rows = append(rows, []string{s.Hypothesis, s.Variant, strconv.Itoa(s.N), formatCell(s.Mean), formatCell(s.SD)})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("Hypothesis", "Variant", "N", "Mean", "SD").
		Rows(rows...).
		StyleFunc(styleCell).
		String()
}

// RenderTests draws the pairwise test results as a table.
func RenderTests(tests []analysis.TestRow) string {
	rows := make([][]string, 0, len(tests))
	for _, t := range tests {
		rows = append(rows, []string{t.Hypothesis, t.V1 + " vs " + t.V2, formatCell(t.TStat), formatCell(t.PValue)})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("Hypothesis", "Variants", "t", "p").
		Rows(rows...).
		StyleFunc(styleCell).
		String()
}

// RenderBackendMetrics draws per-backend call counts and latency.
func RenderBackendMetrics(snapshot []metrics.BackendMetrics) string {
	rows := make([][]string, 0, len(snapshot))
	for _, m := range snapshot {
		rows = append(rows, []string{
			m.Backend,
			m.Model,
			strconv.FormatInt(m.Calls, 10),
			strconv.FormatInt(m.Failures, 10),
			formatMillis(m.LatencyMillis.Mean),
			formatMillis(m.LatencyMillis.StdDev()),
			formatMillis(m.LatencyMillis.Max),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("Backend", "Model", "Calls", "Failures", "Mean ms", "SD ms", "Max ms").
		Rows(rows...).
		StyleFunc(styleCell).
		String()
}

func formatMillis(v float64) string {
	if s := FormatFloat(v); s == "" {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatCell(v float64) string {
	if s := FormatFloat(v); s == "" {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// styleCell right-aligns the numeric columns, which start at index 2 in every table.
func styleCell(row, col int) lipgloss.Style {
	switch {
	case row == table.HeaderRow:
		return headerStyle
	case col >= 2:
		return numberStyle
	default:
		return cellStyle
	}
}
