// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// TestLoad covers a valid file, invalid JSON, an invalid value, and a missing file.
func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
        "backends": ["mock", "openai"],
        "runs": 5,
        "temperature": 0.7,
        "models": {"openai": "gpt-4o"}
    }`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"mock", "openai"}, cfg.Backends)
	assert.Equal(t, 5, cfg.Runs)
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, "gpt-4o", cfg.Models.OpenAI)
	assert.Equal(t, "claude-3-sonnet-20240229", cfg.Models.Anthropic, "unset model keeps default")
	assert.Equal(t, "results/raw_responses.jsonl", cfg.ResultsPath)
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 200*time.Millisecond, cfg.Pacing())
	assert.Equal(t, path, cfg.ConfigPath)

	_, err = Load(writeConfig(t, `{ "backends": [`))
	assert.Error(t, err, "invalid JSON should fail")

	_, err = Load(writeConfig(t, `{ "runs": 0 }`))
	assert.Error(t, err, "zero runs should fail validation")

	_, err = Load(filepath.Join(t.TempDir(), "nonexistent.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Temperature = 2.5
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.PacingMillis = -1
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Backends = nil
	assert.Error(t, bad.Validate())
}

func TestModelFor(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "mock-llm", cfg.ModelFor("mock"))
	assert.Equal(t, "gpt-4o-mini", cfg.ModelFor(" OpenAI "))
	assert.Equal(t, "default", cfg.ModelFor("llama.cpp"))
	assert.Empty(t, cfg.ModelFor("unknown"))
}

func TestShowConfig(t *testing.T) {
	var buf bytes.Buffer
	ShowConfig(&buf, "", nil)
	out := buf.String()
	assert.Contains(t, out, "No config file loaded")
	assert.Contains(t, out, "Backends:          mock")
	assert.Contains(t, out, "mock-llm (seed 42)")
}
