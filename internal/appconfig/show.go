package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		d := Defaults()
		cfg = &d
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:             %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Log File:          %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Prompt Dir:        %s\n", cfg.PromptDir)
	fmt.Fprintf(out, "  Results:           %s\n", cfg.ResultsPath)
	fmt.Fprintf(out, "  Analysis Dir:      %s\n", cfg.AnalysisDir)
	fmt.Fprintf(out, "  Validation Report: %s\n", cfg.ValidationReport)
	if cfg.GroundTruthPath != "" {
		fmt.Fprintf(out, "  Ground Truth:      %s\n", cfg.GroundTruthPath)
	}
	fmt.Fprintf(out, "  Backends:          %s\n", strings.Join(cfg.Backends, ", "))
	fmt.Fprintf(out, "  Runs:              %d\n", cfg.Runs)
	fmt.Fprintf(out, "  Temperature:       %g\n", cfg.Temperature)
	fmt.Fprintf(out, "  Pacing:            %s\n", cfg.Pacing())
	fmt.Fprintf(out, "  Request Timeout:   %s\n", cfg.RequestTimeout())
	fmt.Fprintln(out, "  Models:")
	fmt.Fprintf(out, "    openai:    %s\n", cfg.Models.OpenAI)
	fmt.Fprintf(out, "    anthropic: %s\n", cfg.Models.Anthropic)
	fmt.Fprintf(out, "    gemini:    %s\n", cfg.Models.Gemini)
	fmt.Fprintf(out, "    llamacpp:  %s (%s)\n", cfg.Models.LlamaCpp, cfg.LlamaCppURL)
	fmt.Fprintf(out, "    mock:      %s (seed %d)\n", cfg.Models.Mock, cfg.MockSeed)
}
