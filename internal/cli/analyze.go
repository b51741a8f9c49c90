// internal/cli/analyze.go
package biaslens

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwiater/biaslens/internal/analysis"
	"github.com/mwiater/biaslens/internal/charts"
	"github.com/mwiater/biaslens/internal/features"
	"github.com/mwiater/biaslens/internal/logging"
	"github.com/mwiater/biaslens/internal/records"
	"github.com/mwiater/biaslens/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score the collected responses and test for framing effects",
	Long: `Annotate every response with sentiment, recommendation focus and player mentions,
then write the grouped summary, Welch t-tests, focus chi-square, mention counts and charts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		out := cmd.OutOrStdout()
		outDir, _ := cmd.Flags().GetString("outdir")
		if outDir == "" {
			outDir = cfg.AnalysisDir
		}
		withCharts, _ := cmd.Flags().GetBool("charts")

		noResults := fmt.Errorf(`no results found in %s; run "biaslens collect" first`, cfg.ResultsPath)
		loaded, err := records.Load(cfg.ResultsPath)
		if errors.Is(err, os.ErrNotExist) {
			return noResults
		}
		if err != nil {
			return fmt.Errorf("load results: %w", err)
		}
		for _, w := range loaded.Warnings {
			fmt.Fprintf(out, "%s skipped %s\n", warnTag("[WARN]"), w)
			logging.LogEvent("[WARN] %s: skipped %s", cfg.ResultsPath, w)
		}

		res, err := analysis.Run(loaded.Records, features.NewScorer())
		if errors.Is(err, analysis.ErrNoRecords) {
			return noResults
		}
		if err != nil {
			return err
		}

		written, err := report.WriteAll(outDir, res)
		if err != nil {
			return fmt.Errorf("write reports: %w", err)
		}
		if withCharts {
			pngs, err := charts.RenderAll(outDir, res)
			if err != nil {
				return fmt.Errorf("render charts: %w", err)
			}
			written = append(written, pngs...)
		}

		fmt.Fprintln(out, report.RenderSummary(res.Summary))
		if len(res.Tests) > 0 {
			fmt.Fprintln(out, report.RenderTests(res.Tests))
		}
		fmt.Fprintf(out, "chi2=%.3f, p=%.4f, dof=%d", res.ChiSquare.Stat, res.ChiSquare.P, res.ChiSquare.DOF)
		if n := len(res.ChiSquare.Caveats); n > 0 {
			fmt.Fprintf(out, " %s %d cell(s) with expected count < %g", warnTag("[WARN]"), n, analysis.MinExpectedCount)
		}
		fmt.Fprintln(out)

		if DebugEnabled() {
			for _, path := range written {
				fmt.Fprintf(out, " - %s\n", path)
			}
		}
		fmt.Fprintf(out, "%s Analysis complete. Outputs written to: %s\n", okTag("[OK]"), outDir)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("results", "", "JSONL results file to analyze")
	analyzeCmd.Flags().String("outdir", "", "directory for CSV, text and chart outputs")
	analyzeCmd.Flags().Bool("charts", true, "render PNG charts")
	rootCmd.AddCommand(analyzeCmd)
}
