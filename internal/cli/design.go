// internal/cli/design.go
package biaslens

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwiater/biaslens/internal/prompts"
)

var designCmd = &cobra.Command{
	Use:   "design",
	Short: "Write the H1-H5 prompt variant files",
	Long:  `Write the ten prompt variants (two per hypothesis) into the prompt directory. Existing files are kept unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		dir, _ := cmd.Flags().GetString("outdir")
		if dir == "" {
			dir = cfg.PromptDir
		}
		force, _ := cmd.Flags().GetBool("force")
		out := cmd.OutOrStdout()

		results, err := prompts.Write(dir, prompts.Build(time.Now()), force)
		if err != nil {
			return fmt.Errorf("write prompts: %w", err)
		}
		for _, r := range results {
			if r.Skipped {
				fmt.Fprintf(out, "%s %s (exists; use --force to overwrite)\n", skipTag("[SKIP]"), r.Path)
				continue
			}
			fmt.Fprintf(out, "%s   %s\n", okTag("[OK]"), r.Path)
		}

		files, err := prompts.List(dir)
		if err != nil {
			return err
		}
		abs, _ := filepath.Abs(dir)
		fmt.Fprintf(out, "\n[INFO] Prompt files available in: %s\n", abs)
		for _, f := range files {
			fmt.Fprintf(out, " - %s\n", filepath.Base(f.Path))
		}
		return nil
	},
}

func init() {
	designCmd.Flags().String("outdir", "", "output directory for prompt files (default: promptDir from config)")
	designCmd.Flags().Bool("force", false, "overwrite existing prompt files")
	rootCmd.AddCommand(designCmd)
}
