// internal/charts/charts.go
// Package charts renders the analysis results as PNG images.
package charts

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/mwiater/biaslens/internal/analysis"
)

// Output file names inside the analysis directory.
const (
	SentimentFile = "sentiment_by_variant.png"
	FocusFile     = "focus_by_variant.png"
	HeatmapFile   = "player_mentions_heatmap.png"
)

const (
	chartWidth  = 7 * vg.Inch
	chartHeight = 4 * vg.Inch
)

// RenderAll writes the three charts into dir. The heatmap is skipped when no
// player was mentioned. It returns the paths written.
func RenderAll(dir string, res *analysis.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	var written []string

	path := filepath.Join(dir, SentimentFile)
	if err := SentimentBoxPlot(path, res.Rows); err != nil {
		return written, fmt.Errorf("sentiment chart: %w", err)
	}
	written = append(written, path)

	path = filepath.Join(dir, FocusFile)
	if err := FocusBarChart(path, res.Crosstab); err != nil {
		return written, fmt.Errorf("focus chart: %w", err)
	}
	written = append(written, path)

	if res.Matrix.Empty() {
		return written, nil
	}
	path = filepath.Join(dir, HeatmapFile)
	if err := MentionHeatmap(path, res.Matrix); err != nil {
		return written, fmt.Errorf("mention heatmap: %w", err)
	}
	return append(written, path), nil
}

// SentimentBoxPlot draws one box of sentiment scores per variant.
func SentimentBoxPlot(path string, rows []analysis.Row) error {
	variants := analysis.Variants(rows)
	if len(variants) == 0 {
		return fmt.Errorf("no rows to plot")
	}
	values := make(map[string]plotter.Values, len(variants))
	for _, r := range rows {
		values[r.Variant] = append(values[r.Variant], r.Sentiment)
	}

	p := plot.New()
	p.Title.Text = "Sentiment by Variant"
	p.X.Label.Text = "Prompt Variant"
	p.Y.Label.Text = "VADER Compound Score"

	for i, v := range variants {
		box, err := plotter.NewBoxPlot(vg.Points(20), float64(i), values[v])
		if err != nil {
			return err
		}
		box.FillColor = plotutil.Color(0)
		p.Add(box)
	}
	p.NominalX(variants...)
	return p.Save(chartWidth, chartHeight, path)
}

// FocusBarChart draws grouped bars of focus label counts per variant.
func FocusBarChart(path string, table analysis.Contingency) error {
	if len(table.Variants) == 0 {
		return fmt.Errorf("empty contingency table")
	}
	p := plot.New()
	p.Title.Text = "Recommendation Focus by Variant"
	p.X.Label.Text = "Prompt Variant"
	p.Y.Label.Text = "Count"
	p.Legend.Top = true

	barWidth := vg.Points(14)
	n := len(table.Labels)
	for j, label := range table.Labels {
		counts := make(plotter.Values, len(table.Variants))
		for i := range table.Variants {
			counts[i] = table.Counts[i][j]
		}
		bars, err := plotter.NewBarChart(counts, barWidth)
		if err != nil {
			return err
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(j)
		bars.Offset = vg.Length(float64(j)-float64(n-1)/2) * barWidth
		p.Add(bars)
		p.Legend.Add(label, bars)
	}
	p.NominalX(table.Variants...)
	return p.Save(chartWidth, chartHeight, path)
}

// MentionHeatmap draws mention counts by player and variant with each cell annotated.
func MentionHeatmap(path string, m analysis.MentionMatrix) error {
	if m.Empty() {
		return fmt.Errorf("no mentions to plot")
	}
	pal, err := brewer.GetPalette(brewer.TypeSequential, "Blues", 9)
	if err != nil {
		return err
	}

	grid := mentionGrid{m: m}
	heat := plotter.NewHeatMap(grid, pal)
	heat.Min = 0
	if heat.Max <= heat.Min {
		heat.Max = heat.Min + 1
	}

	p := plot.New()
	p.Title.Text = "Player Mention Frequency by Variant"
	p.Add(heat)

	var cells plotter.XYLabels
	for r := range m.Players {
		for c := range m.Variants {
			cells.XYs = append(cells.XYs, plotter.XY{X: float64(c), Y: float64(r)})
			cells.Labels = append(cells.Labels, strconv.Itoa(m.Counts[r][c]))
		}
	}
	labels, err := plotter.NewLabels(cells)
	if err != nil {
		return err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(labels)

	p.NominalX(m.Variants...)
	p.NominalY(m.Players...)
	height := vg.Length(math.Max(3, float64(len(m.Players))*0.35)) * vg.Inch
	return p.Save(8*vg.Inch, height, path)
}

// mentionGrid exposes a MentionMatrix as a heat map grid: columns are variants, rows players.
type mentionGrid struct {
	m analysis.MentionMatrix
}

func (g mentionGrid) Dims() (c, r int)   { return len(g.m.Variants), len(g.m.Players) }
func (g mentionGrid) Z(c, r int) float64 { return float64(g.m.Counts[r][c]) }
func (g mentionGrid) X(c int) float64    { return float64(c) }
func (g mentionGrid) Y(r int) float64    { return float64(r) }
