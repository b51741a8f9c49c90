// internal/validation/validation.go
// Package validation flags response text that may contradict the ground-truth statistics.
package validation

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/mwiater/biaslens/internal/records"
	"github.com/mwiater/biaslens/internal/util"
)

// UnusualThreshold is the value above which a number is considered suspect.
const UnusualThreshold = 500.0

var numberPattern = regexp.MustCompile(`(\d+\.?\d*)`)

// ValidateText returns the issues found in text. For every player statistic
// whose literal appears in the text, each number above UnusualThreshold is
// reported unless the text mentions saves. A missing part of the team record
// is reported when the text talks about the record.
func ValidateText(text string, truth GroundTruth) []string {
	var issues []string
	lower := strings.ToLower(text)
	numbers := extractNumbers(text)
	mentionsSaves := strings.Contains(lower, "save")

	for _, player := range truth.Players {
		for _, stat := range player.Stats {
			if !strings.Contains(text, stat.Literal) {
				continue
			}
			if mentionsSaves {
				continue
			}
			for _, n := range numbers {
				if n > UnusualThreshold {
					issues = append(issues, fmt.Sprintf("Unusual number detected (%s) outside ground-truth ranges.", formatDecimal(n)))
				}
			}
		}
	}

	if recordIncomplete(text, truth.TeamRecord) && strings.Contains(lower, "record") {
		issues = append(issues, "Possible team record discrepancy.")
	}
	return issues
}

func extractNumbers(text string) []float64 {
	matches := numberPattern.FindAllString(text, -1)
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		if v, err := strconv.ParseFloat(strings.TrimSuffix(m, "."), 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// recordIncomplete reports whether any part of a "W-L" record is absent from text.
func recordIncomplete(text, record string) bool {
	for _, part := range strings.Split(record, "-") {
		if part = strings.TrimSpace(part); part != "" && !strings.Contains(text, part) {
			return true
		}
	}
	return false
}

// Row is one line of the validation report.
type Row struct {
	ID         string
	Model      string
	Hypothesis string
	Variant    string
	Issues     []string
}

// IssueText joins the issues for the report, or returns "None".
func (r Row) IssueText() string {
	if len(r.Issues) == 0 {
		return "None"
	}
	return strings.Join(r.Issues, "; ")
}

// Validate checks every record against truth.
func Validate(recs []records.Record, truth GroundTruth) []Row {
	rows := make([]Row, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, Row{
			ID:         rec.ID,
			Model:      rec.Model,
			Hypothesis: rec.Hypothesis,
			Variant:    rec.Variant,
			Issues:     ValidateText(rec.ResponseText, truth),
		})
	}
	return rows
}

// Summary reports the outcome of Run.
type Summary struct {
	Records  int
	Flagged  int
	Skipped  int
	Rows     []Row
	Warnings []records.Warning
}

// Run validates the records in resultsPath and writes the report CSV to outPath.
func Run(resultsPath, outPath string, truth GroundTruth) (Summary, error) {
	loaded, err := records.Load(resultsPath)
	if err != nil {
		return Summary{}, fmt.Errorf("load results: %w", err)
	}
	if len(loaded.Records) == 0 {
		return Summary{}, fmt.Errorf("no records found in %s", resultsPath)
	}

	rows := Validate(loaded.Records, truth)
	if err := WriteReport(outPath, rows); err != nil {
		return Summary{}, err
	}

	summary := Summary{Records: len(rows), Skipped: len(loaded.Warnings), Rows: rows, Warnings: loaded.Warnings}
	for _, r := range rows {
		if len(r.Issues) > 0 {
			summary.Flagged++
		}
	}
	return summary, nil
}

// WriteReport writes rows as id,model,hypothesis,variant,issues.
func WriteReport(path string, rows []Row) error {
	if err := util.EnsureParentDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"id", "model", "hypothesis", "variant", "issues"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write([]string{r.ID, r.Model, r.Hypothesis, r.Variant, r.IssueText()}); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}
