// internal/cli/validate.go
package biaslens

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/biaslens/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Flag responses whose numbers disagree with the ground-truth statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		out := cmd.OutOrStdout()
		outPath, _ := cmd.Flags().GetString("out")
		if outPath == "" {
			outPath = cfg.ValidationReport
		}

		truth := validation.DefaultGroundTruth()
		if cfg.GroundTruthPath != "" {
			loaded, err := validation.LoadGroundTruth(cfg.GroundTruthPath)
			if err != nil {
				return err
			}
			truth = loaded
		}

		summary, err := validation.Run(cfg.ResultsPath, outPath, truth)
		if err != nil {
			return err
		}
		for _, w := range summary.Warnings {
			fmt.Fprintf(out, "%s skipped %s\n", warnTag("[WARN]"), w)
		}
		if DebugEnabled() {
			for _, row := range summary.Rows {
				if len(row.Issues) > 0 {
					fmt.Fprintf(out, " - %s %s/%s %s: %s\n", row.Model, row.Hypothesis, row.Variant, row.ID, row.IssueText())
				}
			}
		}
		fmt.Fprintf(out, "%s Validation complete: %d of %d responses flagged -> %s\n", okTag("[OK]"), summary.Flagged, summary.Records, outPath)
		return nil
	},
}

func init() {
	validateCmd.Flags().String("results", "", "JSONL results file to validate")
	validateCmd.Flags().String("out", "", "CSV report path")
	validateCmd.Flags().String("ground-truth", "", "YAML file overriding the built-in ground truth")
	rootCmd.AddCommand(validateCmd)
}
