// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout bounds a single backend call.
	defaultRequestTimeout = 120 * time.Second
	// defaultPacing is the minimum gap between two backend calls.
	defaultPacing = 200 * time.Millisecond
	// defaultSystemPrompt is sent to every chat-style backend.
	defaultSystemPrompt = "You are an analytical, concise assistant. Ground your answer only in the provided data."
)

// Config represents the top-level application configuration.
type Config struct {
	Debug            bool     `json:"debug" mapstructure:"debug"`
	LogFile          string   `json:"logFile,omitempty" mapstructure:"logFile"`
	PromptDir        string   `json:"promptDir" mapstructure:"promptDir"`
	ResultsPath      string   `json:"results" mapstructure:"results"`
	AnalysisDir      string   `json:"analysisDir" mapstructure:"analysisDir"`
	ValidationReport string   `json:"validationReport" mapstructure:"validationReport"`
	GroundTruthPath  string   `json:"groundTruth,omitempty" mapstructure:"groundTruth"`
	Backends         []string `json:"backends" mapstructure:"backends"`
	Runs             int      `json:"runs" mapstructure:"runs"`
	Temperature      float64  `json:"temperature" mapstructure:"temperature"`
	PacingMillis     int      `json:"pacingMillis" mapstructure:"pacingMillis"`
	TimeoutSeconds   int      `json:"timeout,omitempty" mapstructure:"timeout"`
	SystemPrompt     string   `json:"systemPrompt,omitempty" mapstructure:"systemPrompt"`
	MockSeed         int64    `json:"mockSeed" mapstructure:"mockSeed"`
	Models           Models   `json:"models" mapstructure:"models"`
	LlamaCppURL      string   `json:"llamacppURL,omitempty" mapstructure:"llamacppURL"`
	ConfigPath       string   `json:"-" mapstructure:"-"`
}

// Models holds the model identifier sent to each backend.
type Models struct {
	OpenAI    string `json:"openai" mapstructure:"openai"`
	Anthropic string `json:"anthropic" mapstructure:"anthropic"`
	Gemini    string `json:"gemini" mapstructure:"gemini"`
	LlamaCpp  string `json:"llamacpp" mapstructure:"llamacpp"`
	Mock      string `json:"mock" mapstructure:"mock"`
}

// Defaults returns the configuration used when neither file nor flags set a value.
func Defaults() Config {
	return Config{
		LogFile:          "biaslens.log",
		PromptDir:        "prompts",
		ResultsPath:      "results/raw_responses.jsonl",
		AnalysisDir:      "analysis",
		ValidationReport: "results/validation_report.csv",
		Backends:         []string{"mock"},
		Runs:             3,
		Temperature:      0.3,
		PacingMillis:     int(defaultPacing / time.Millisecond),
		TimeoutSeconds:   int(defaultRequestTimeout / time.Second),
		SystemPrompt:     defaultSystemPrompt,
		MockSeed:         42,
		Models: Models{
			OpenAI:    "gpt-4o-mini",
			Anthropic: "claude-3-sonnet-20240229",
			Gemini:    "gemini-1.5-pro",
			LlamaCpp:  "default",
			Mock:      "mock-llm",
		},
		LlamaCppURL: "http://localhost:8080",
	}
}

// RequestTimeout returns the timeout for one backend call, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Pacing returns the delay enforced between consecutive backend calls.
func (c Config) Pacing() time.Duration {
	if c.PacingMillis < 0 {
		return defaultPacing
	}
	return time.Duration(c.PacingMillis) * time.Millisecond
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "biaslens.log"
}

// ModelFor returns the configured model identifier for a backend key.
func (c Config) ModelFor(backend string) string {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "openai":
		return c.Models.OpenAI
	case "anthropic":
		return c.Models.Anthropic
	case "gemini":
		return c.Models.Gemini
	case "llamacpp", "llama.cpp":
		return c.Models.LlamaCpp
	case "mock":
		return c.Models.Mock
	default:
		return ""
	}
}

// ApplyDefaults fills zero-valued fields from Defaults.
func (c *Config) ApplyDefaults() {
	d := Defaults()
	if strings.TrimSpace(c.PromptDir) == "" {
		c.PromptDir = d.PromptDir
	}
	if strings.TrimSpace(c.ResultsPath) == "" {
		c.ResultsPath = d.ResultsPath
	}
	if strings.TrimSpace(c.AnalysisDir) == "" {
		c.AnalysisDir = d.AnalysisDir
	}
	if strings.TrimSpace(c.ValidationReport) == "" {
		c.ValidationReport = d.ValidationReport
	}
	if len(c.Backends) == 0 {
		c.Backends = d.Backends
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = d.TimeoutSeconds
	}
	if strings.TrimSpace(c.SystemPrompt) == "" {
		c.SystemPrompt = d.SystemPrompt
	}
	if c.Models.OpenAI == "" {
		c.Models.OpenAI = d.Models.OpenAI
	}
	if c.Models.Anthropic == "" {
		c.Models.Anthropic = d.Models.Anthropic
	}
	if c.Models.Gemini == "" {
		c.Models.Gemini = d.Models.Gemini
	}
	if c.Models.LlamaCpp == "" {
		c.Models.LlamaCpp = d.Models.LlamaCpp
	}
	if c.Models.Mock == "" {
		c.Models.Mock = d.Models.Mock
	}
	if strings.TrimSpace(c.LlamaCppURL) == "" {
		c.LlamaCppURL = d.LlamaCppURL
	}
}

// Validate reports the first setting that would make a collection run meaningless.
func (c Config) Validate() error {
	if c.Runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", c.Runs)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be within [0, 2], got %g", c.Temperature)
	}
	if c.PacingMillis < 0 {
		return fmt.Errorf("pacingMillis must not be negative, got %d", c.PacingMillis)
	}
	if len(c.Backends) == 0 {
		return errors.New("at least one backend is required")
	}
	return nil
}

// Load reads the application configuration from the specified path.
// Fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration in %q: %w", path, err)
	}
	config.ConfigPath = path
	return config, nil
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	config := Defaults()
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	config.ApplyDefaults()

	return config, nil
}
