// internal/report/csv.go
// Package report writes the analysis tables to disk and renders them for the console.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mwiater/biaslens/internal/analysis"
	"github.com/mwiater/biaslens/internal/records"
	"github.com/mwiater/biaslens/internal/util"
)

// Output file names inside the analysis directory.
const (
	ProcessedFile = "responses_processed.csv"
	SummaryFile   = "sentiment_summary.csv"
	TestsFile     = "sentiment_tests.csv"
	CrosstabFile  = "focus_crosstab.csv"
	ChiSquareFile = "focus_chi2.txt"
	MentionsFile  = "player_mentions.csv"
)

var processedHeader = []string{
	"id", "timestamp", "model", "model_version", "temperature", "hypothesis", "variant",
	"prompt_path", "prompt_text", "response_text", "sentiment", "focus", "mentions",
}

// WriteAll writes every tabular artifact of res into dir and returns the paths written.
func WriteAll(dir string, res *analysis.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create analysis dir: %w", err)
	}
	steps := []struct {
		name  string
		write func(string) error
	}{
		{ProcessedFile, func(p string) error { return WriteProcessed(p, res.Rows) }},
		{SummaryFile, func(p string) error { return WriteSummary(p, res.Summary) }},
		{TestsFile, func(p string) error { return WriteTests(p, res.Tests) }},
		{CrosstabFile, func(p string) error { return WriteCrosstab(p, res.Crosstab) }},
		{ChiSquareFile, func(p string) error { return WriteChiSquare(p, res.ChiSquare, res.Crosstab) }},
		{MentionsFile, func(p string) error { return WriteMentions(p, res.Mentions) }},
	}
	written := make([]string, 0, len(steps))
	for _, step := range steps {
		path := filepath.Join(dir, step.name)
		if err := step.write(path); err != nil {
			return written, fmt.Errorf("write %s: %w", step.name, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// FormatFloat renders v in its shortest exact form; NaN and infinities become an empty cell.
func FormatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := util.EnsureParentDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return file.Close()
}

// The csv reader folds \r\n inside quoted fields to \n, so carriage returns
// in the free-text columns are written as the two characters `\r`.
var (
	escapeCR   = strings.NewReplacer(`\`, `\\`, "\r", `\r`)
	unescapeCR = strings.NewReplacer(`\\`, `\`, `\r`, "\r")
)

// WriteProcessed writes every record field plus sentiment, focus, and mentions (a JSON array).
func WriteProcessed(path string, rows []analysis.Row) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		mentions := r.Mentions
		if mentions == nil {
			mentions = []string{}
		}
		encoded, err := json.Marshal(mentions)
		if err != nil {
			return err
		}
		out = append(out, []string{
			r.ID, r.Timestamp, r.Model, r.ModelVersion, FormatFloat(r.Temperature),
			r.Hypothesis, r.Variant, r.PromptPath, escapeCR.Replace(r.PromptText), escapeCR.Replace(r.ResponseText),
			FormatFloat(r.Sentiment), r.Focus, string(encoded),
		})
	}
	return writeCSV(path, processedHeader, out)
}

// ReadProcessed reads a file written by WriteProcessed.
func ReadProcessed(path string) ([]analysis.Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(processedHeader)
	all, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%s: missing header", path)
	}
	for i, name := range processedHeader {
		if all[0][i] != name {
			return nil, fmt.Errorf("%s: unexpected column %q at position %d", path, all[0][i], i)
		}
	}

	rows := make([]analysis.Row, 0, len(all)-1)
	for n, fields := range all[1:] {
		temperature, err := parseFloat(fields[4])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: temperature: %w", path, n+1, err)
		}
		sentiment, err := parseFloat(fields[10])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: sentiment: %w", path, n+1, err)
		}
		var mentions []string
		if err := json.Unmarshal([]byte(fields[12]), &mentions); err != nil {
			return nil, fmt.Errorf("%s row %d: mentions: %w", path, n+1, err)
		}
		if mentions == nil {
			mentions = []string{}
		}
		rows = append(rows, analysis.Row{
			Record: records.Record{
				ID:           fields[0],
				Timestamp:    fields[1],
				Model:        fields[2],
				ModelVersion: fields[3],
				Temperature:  temperature,
				Hypothesis:   fields[5],
				Variant:      fields[6],
				PromptPath:   fields[7],
				PromptText:   unescapeCR.Replace(fields[8]),
				ResponseText: unescapeCR.Replace(fields[9]),
			},
			Sentiment: sentiment,
			Focus:     fields[11],
			Mentions:  mentions,
		})
	}
	return rows, nil
}

// WriteSummary writes the grouped sentiment summary.
func WriteSummary(path string, summary []analysis.SummaryRow) error {
	out := make([][]string, 0, len(summary))
	for _, s := range summary {
		out = append(out, []string{s.Hypothesis, s.Variant, strconv.Itoa(s.N), FormatFloat(s.Mean), FormatFloat(s.SD)})
	}
	return writeCSV(path, []string{"hypothesis", "variant", "n", "mean_sentiment", "sd_sentiment"}, out)
}

// WriteTests writes one row per pairwise test. The header is written even when there are none.
func WriteTests(path string, tests []analysis.TestRow) error {
	out := make([][]string, 0, len(tests))
	for _, t := range tests {
		out = append(out, []string{
			t.Hypothesis, t.V1, t.V2, FormatFloat(t.TStat), FormatFloat(t.PValue),
			FormatFloat(t.MeanV1), FormatFloat(t.MeanV2), strconv.Itoa(t.NV1), strconv.Itoa(t.NV2),
		})
	}
	return writeCSV(path, []string{"hypothesis", "v1", "v2", "t_stat", "p_value", "mean_v1", "mean_v2", "n_v1", "n_v2"}, out)
}

// WriteCrosstab writes the variant x focus table of observed counts.
func WriteCrosstab(path string, table analysis.Contingency) error {
	header := append([]string{"variant"}, table.Labels...)
	out := make([][]string, 0, len(table.Variants))
	for i, v := range table.Variants {
		line := []string{v}
		for _, c := range table.Counts[i] {
			line = append(line, strconv.Itoa(int(c)))
		}
		out = append(out, line)
	}
	return writeCSV(path, header, out)
}

// WriteMentions writes the player mention tally.
func WriteMentions(path string, mentions []analysis.MentionCount) error {
	out := make([][]string, 0, len(mentions))
	for _, m := range mentions {
		out = append(out, []string{m.Player, strconv.Itoa(m.Count)})
	}
	return writeCSV(path, []string{"player", "count"}, out)
}
