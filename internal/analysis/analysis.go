// internal/analysis/analysis.go
// Package analysis annotates response records and compares prompt variants:
// grouped sentiment summaries, Welch t-tests, a chi-square test of focus
// against variant, and player mention tallies.
package analysis

import (
	"errors"
	"sort"

	"github.com/mwiater/biaslens/internal/features"
	"github.com/mwiater/biaslens/internal/records"
)

// ErrNoRecords is returned when there is nothing to analyze.
var ErrNoRecords = errors.New("no response records to analyze")

// Row is a response record together with its derived features.
type Row struct {
	records.Record
	Sentiment float64
	Focus     string
	Mentions  []string
}

// Annotator derives features from response text.
type Annotator interface {
	Annotate(text string) features.Annotation
}

// Annotate computes the features of every record. The input is not modified.
func Annotate(recs []records.Record, annotator Annotator) []Row {
	rows := make([]Row, 0, len(recs))
	for _, rec := range recs {
		a := annotator.Annotate(rec.ResponseText)
		mentions := a.Mentions
		if mentions == nil {
			mentions = []string{}
		}
		rows = append(rows, Row{Record: rec, Sentiment: a.Sentiment, Focus: a.Focus, Mentions: mentions})
	}
	return rows
}

// Result gathers every derived table of one analysis run.
type Result struct {
	Rows      []Row
	Summary   []SummaryRow
	Tests     []TestRow
	Crosstab  Contingency
	ChiSquare ChiSquareResult
	Mentions  []MentionCount
	Matrix    MentionMatrix
}

// Run annotates recs and computes all aggregates. It fails with ErrNoRecords on empty input.
func Run(recs []records.Record, annotator Annotator) (*Result, error) {
	if len(recs) == 0 {
		return nil, ErrNoRecords
	}
	rows := Annotate(recs, annotator)
	table := Crosstab(rows)
	return &Result{
		Rows:      rows,
		Summary:   Summarize(rows),
		Tests:     PairwiseTests(rows),
		Crosstab:  table,
		ChiSquare: ChiSquare(table),
		Mentions:  TallyMentions(rows),
		Matrix:    BuildMentionMatrix(rows),
	}, nil
}

// Variants returns the distinct variants in rows, sorted.
func Variants(rows []Row) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		if !seen[r.Variant] {
			seen[r.Variant] = true
			out = append(out, r.Variant)
		}
	}
	sort.Strings(out)
	return out
}
