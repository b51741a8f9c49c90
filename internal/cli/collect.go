// internal/cli/collect.go
package biaslens

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwiater/biaslens/internal/collect"
	"github.com/mwiater/biaslens/internal/metrics"
	"github.com/mwiater/biaslens/internal/providerfactory"
	"github.com/mwiater/biaslens/internal/records"
	"github.com/mwiater/biaslens/internal/report"
)

// metricsFile sits next to the results file.
const metricsFile = "backend_metrics.json"

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run every prompt through the selected backends and log the responses",
	Long: `Run each prompt file through each selected backend the configured number of times.
Every response (or inline error) is appended as one JSON line to the results file.
Missing API keys do not abort the batch; the failure is recorded in the response text.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}

		aggregator := metrics.NewAggregator()
		registry, err := providerfactory.NewRegistry(cfg, aggregator)
		if err != nil {
			return err
		}

		appender, err := records.OpenAppender(cfg.ResultsPath)
		if err != nil {
			return fmt.Errorf("open results: %w", err)
		}
		defer appender.Close()

		runner := collect.NewRunner(registry, appender, cfg.Pacing(), cmd.OutOrStdout())
		stats, err := runner.Run(cmd.Context(), collect.Plan{
			PromptDir:    cfg.PromptDir,
			Backends:     cfg.Backends,
			Runs:         cfg.Runs,
			Temperature:  cfg.Temperature,
			SystemPrompt: cfg.SystemPrompt,
		})
		if err != nil {
			return err
		}
		if err := appender.Close(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\n%s %d responses appended to %s (%d failed)\n", okTag("[OK]"), stats.Calls, cfg.ResultsPath, stats.Errors)
		snapshot := aggregator.Snapshot()
		if len(snapshot) > 0 {
			fmt.Fprintln(out, report.RenderBackendMetrics(snapshot))
			metricsPath := filepath.Join(filepath.Dir(cfg.ResultsPath), metricsFile)
			if err := aggregator.Save(metricsPath); err != nil {
				return fmt.Errorf("save metrics: %w", err)
			}
			fmt.Fprintf(out, "%s backend metrics written to %s\n", okTag("[OK]"), metricsPath)
		}
		return nil
	},
}

func init() {
	collectCmd.Flags().String("prompt-dir", "", "directory of prompt .txt files")
	collectCmd.Flags().String("results", "", "JSONL file the responses are appended to")
	collectCmd.Flags().StringSlice("backends", nil, "backends to query: mock, openai, anthropic, gemini, llamacpp")
	collectCmd.Flags().Int("runs", 0, "samples per prompt per backend")
	collectCmd.Flags().Float64("temperature", 0, "sampling temperature")
	collectCmd.Flags().Duration("pacing", 200*time.Millisecond, "minimum gap between backend calls")
	collectCmd.Flags().Int64("seed", 0, "seed of the mock backend")
	collectCmd.Flags().String("openai-model", "", "OpenAI model identifier")
	collectCmd.Flags().String("anthropic-model", "", "Anthropic model identifier")
	collectCmd.Flags().String("gemini-model", "", "Gemini model identifier")
	collectCmd.Flags().String("llamacpp-model", "", "llama.cpp model identifier")
	collectCmd.Flags().String("llamacpp-url", "", "llama.cpp server base URL")
	rootCmd.AddCommand(collectCmd)
}
