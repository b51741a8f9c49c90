// internal/cli/show_config.go
package biaslens

import (
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/biaslens/internal/appconfig"
)

var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON config is loaded properly and overridden by environment and flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		file := ""
		if cfg != nil {
			file = cfg.ConfigPath
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), file, cfg)
		if DebugEnabled() && cfg != nil {
			pp.Fprintln(cmd.OutOrStdout(), *cfg)
		}
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
