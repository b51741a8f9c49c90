// internal/records/records.go
// Package records defines the response record written once per backend call
// and the append-only JSONL file that stores them.
package records

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mwiater/biaslens/internal/logging"
	"github.com/mwiater/biaslens/internal/util"
)

const (
	// UnclearHypothesis replaces a missing hypothesis tag.
	UnclearHypothesis = "unclear"
	// DefaultVariant replaces a missing variant tag.
	DefaultVariant = "default"

	maxLineBytes = 4 * 1024 * 1024
)

// Record is one completion event.
type Record struct {
	ID           string  `json:"id"`
	Timestamp    string  `json:"timestamp"`
	Model        string  `json:"model"`
	ModelVersion string  `json:"model_version"`
	Temperature  float64 `json:"temperature"`
	Hypothesis   string  `json:"hypothesis"`
	Variant      string  `json:"variant"`
	PromptPath   string  `json:"prompt_path"`
	PromptText   string  `json:"prompt_text"`
	ResponseText string  `json:"response_text"`
}

// Appender writes records to a JSONL file, one object per line.
type Appender struct {
	file    *os.File
	encoder *json.Encoder
}

// OpenAppender opens path for appending, creating it and its directory if needed.
func OpenAppender(path string) (*Appender, error) {
	if err := util.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("error creating results directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("error opening results file: %w", err)
	}
	encoder := json.NewEncoder(file)
	encoder.SetEscapeHTML(false)
	return &Appender{file: file, encoder: encoder}, nil
}

// Append writes rec as a single line.
func (a *Appender) Append(rec Record) error {
	if err := a.encoder.Encode(rec); err != nil {
		return fmt.Errorf("error writing record %s: %w", rec.ID, err)
	}
	return nil
}

// Close closes the underlying file.
func (a *Appender) Close() error {
	return a.file.Close()
}

// Warning describes a line that was skipped while loading.
type Warning struct {
	Line   int
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Reason)
}

// LoadResult holds the records read from a file and the lines that were skipped.
type LoadResult struct {
	Records  []Record
	Warnings []Warning
}

var recordSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":            nullable("string"),
		"timestamp":     nullable("string"),
		"model":         nullable("string"),
		"model_version": nullable("string"),
		"temperature":   nullable("number"),
		"hypothesis":    nullable("string"),
		"variant":       nullable("string"),
		"prompt_path":   nullable("string"),
		"prompt_text":   nullable("string"),
		"response_text": nullable("string"),
	},
}

func nullable(kind string) map[string]any {
	return map[string]any{"type": []string{kind, "null"}}
}

// rawRecord mirrors Record with pointer fields so JSON nulls are distinguishable.
type rawRecord struct {
	ID           *string  `json:"id"`
	Timestamp    *string  `json:"timestamp"`
	Model        *string  `json:"model"`
	ModelVersion *string  `json:"model_version"`
	Temperature  *float64 `json:"temperature"`
	Hypothesis   *string  `json:"hypothesis"`
	Variant      *string  `json:"variant"`
	PromptPath   *string  `json:"prompt_path"`
	PromptText   *string  `json:"prompt_text"`
	ResponseText *string  `json:"response_text"`
}

// Load reads every well-formed record in path. Malformed or schema-invalid
// lines are skipped and reported as warnings rather than failing the load.
func Load(path string) (LoadResult, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(recordSchema))
	if err != nil {
		return LoadResult{}, fmt.Errorf("compile record schema: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return LoadResult{}, err
	}
	defer file.Close()

	var result LoadResult
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rec, reason := parseLine(schema, []byte(line))
		if reason != "" {
			logging.LogEvent("[WARN] skipping %s line %d: %s", path, lineNo, reason)
			result.Warnings = append(result.Warnings, Warning{Line: lineNo, Reason: reason})
			continue
		}
		result.Records = append(result.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("read %s: %w", path, err)
	}
	return result, nil
}

func parseLine(schema *gojsonschema.Schema, line []byte) (Record, string) {
	if !json.Valid(line) {
		return Record{}, "invalid JSON"
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(line))
	if err != nil {
		return Record{}, err.Error()
	}
	if !res.Valid() {
		var errs []string
		for _, desc := range res.Errors() {
			errs = append(errs, desc.String())
		}
		return Record{}, strings.Join(errs, ", ")
	}

	var raw rawRecord
	if err := json.Unmarshal(line, &raw); err != nil {
		return Record{}, err.Error()
	}
	return raw.normalize(), ""
}

func (r rawRecord) normalize() Record {
	rec := Record{
		ID:           deref(r.ID),
		Timestamp:    deref(r.Timestamp),
		Model:        deref(r.Model),
		ModelVersion: deref(r.ModelVersion),
		Hypothesis:   strings.TrimSpace(deref(r.Hypothesis)),
		Variant:      strings.TrimSpace(deref(r.Variant)),
		PromptPath:   deref(r.PromptPath),
		PromptText:   deref(r.PromptText),
		ResponseText: deref(r.ResponseText),
	}
	if r.Temperature != nil {
		rec.Temperature = *r.Temperature
	}
	if rec.Hypothesis == "" {
		rec.Hypothesis = UnclearHypothesis
	}
	if rec.Variant == "" {
		rec.Variant = DefaultVariant
	}
	return rec
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
