// internal/cli/cli_test.go
package biaslens

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/biaslens/internal/records"
	"github.com/mwiater/biaslens/internal/report"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	b := new(bytes.Buffer)
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		currentConfig = nil
	})
	err := rootCmd.Execute()
	return b.String(), err
}

// TestPipeline drives design, collect, analyze and validate against the
// offline mock backend in a temporary workspace.
func TestPipeline(t *testing.T) {
	dir := t.TempDir()
	common := []string{
		"--config", filepath.Join(dir, "missing.json"),
		"--logFile", filepath.Join(dir, "biaslens.log"),
	}
	promptDir := filepath.Join(dir, "prompts")
	results := filepath.Join(dir, "results", "raw_responses.jsonl")
	analysisDir := filepath.Join(dir, "analysis")
	reportPath := filepath.Join(dir, "results", "validation_report.csv")

	out, err := executeCommand(t, append([]string{"design", "--outdir", promptDir}, common...)...)
	require.NoError(t, err, out)
	entries, err := os.ReadDir(promptDir)
	require.NoError(t, err)
	assert.Len(t, entries, 10)
	assert.Contains(t, out, "H5_defense_cued.txt")

	out, err = executeCommand(t, append([]string{"design", "--outdir", promptDir}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "[SKIP]")

	out, err = executeCommand(t, append([]string{
		"collect", "--prompt-dir", promptDir, "--results", results,
		"--backends", "mock,nonsense", "--runs", "2", "--pacing", "0s",
	}, common...)...)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Unknown model key: nonsense. Skipping.")
	assert.Contains(t, out, "H1 / negative / mock run 2")
	assert.FileExists(t, filepath.Join(dir, "results", metricsFile))

	loaded, err := records.Load(results)
	require.NoError(t, err)
	require.Len(t, loaded.Records, 20)
	assert.Equal(t, "mock-llm", loaded.Records[0].ModelVersion)
	assert.Equal(t, 0.3, loaded.Records[0].Temperature)

	out, err = executeCommand(t, append([]string{"analyze", "--results", results, "--outdir", analysisDir, "--charts=false"}, common...)...)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Analysis complete")
	assert.Regexp(t, `\[WARN\] \d+ cell\(s\) with expected count < 5\n`, out, "two responses per variant cannot satisfy the expected-count threshold")
	for _, name := range []string{report.ProcessedFile, report.SummaryFile, report.TestsFile, report.CrosstabFile, report.ChiSquareFile, report.MentionsFile} {
		assert.FileExists(t, filepath.Join(analysisDir, name))
	}
	assert.NoFileExists(t, filepath.Join(analysisDir, "sentiment_by_variant.png"))

	out, err = executeCommand(t, append([]string{"validate", "--results", results, "--out", reportPath}, common...)...)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Validation complete")

	f, err := os.Open(reportPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 21)
	assert.Equal(t, []string{"id", "model", "hypothesis", "variant", "issues"}, rows[0])
}

func TestAnalyzeWithoutResults(t *testing.T) {
	dir := t.TempDir()
	results := filepath.Join(dir, "raw_responses.jsonl")
	common := []string{"--config", filepath.Join(dir, "missing.json"), "--logFile", filepath.Join(dir, "biaslens.log")}

	_, err := executeCommand(t, append([]string{"analyze", "--results", results, "--outdir", dir}, common...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no results found in `+results+`; run "biaslens collect" first`)

	require.NoError(t, os.WriteFile(results, []byte("\n\nnot json\n"), 0o644))
	_, err = executeCommand(t, append([]string{"analyze", "--results", results, "--outdir", dir}, common...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no results found")
}

func TestCollectWithoutPrompts(t *testing.T) {
	dir := t.TempDir()
	_, err := executeCommand(t,
		"collect", "--prompt-dir", dir, "--results", filepath.Join(dir, "out.jsonl"), "--backends", "mock", "--pacing", "0s",
		"--config", filepath.Join(dir, "missing.json"), "--logFile", filepath.Join(dir, "biaslens.log"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no prompts found in "+dir)
}

func TestShowConfigReadsFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"runs": 7, "backends": ["mock", "openai"], "models": {"openai": "gpt-test"}}`), 0o644))

	out, err := executeCommand(t, "show", "config", "--config", cfgPath, "--logFile", filepath.Join(dir, "biaslens.log"))
	require.NoError(t, err)
	assert.Contains(t, out, "Config file: "+cfgPath)
	assert.Contains(t, out, "Runs:              7")
	assert.Contains(t, out, "mock, openai")
	assert.Contains(t, out, "openai:    gpt-test")
	assert.Contains(t, out, "anthropic: claude-3-sonnet-20240229")
}
