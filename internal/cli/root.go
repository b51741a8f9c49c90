// internal/cli/root.go
package biaslens

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mwiater/biaslens/internal/appconfig"
	"github.com/mwiater/biaslens/internal/logging"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
)

var (
	okTag   = color.New(color.FgGreen).SprintFunc()
	warnTag = color.New(color.FgYellow).SprintFunc()
	skipTag = color.New(color.FgCyan).SprintFunc()
	errTag  = color.New(color.FgRed).SprintFunc()
)

// flagKeys maps command flags onto the configuration keys they override.
// Several commands share a key, so a flag is bound only while its command runs.
var flagKeys = map[string]string{
	"debug":           "debug",
	"logFile":         "logFile",
	"prompt-dir":      "promptDir",
	"results":         "results",
	"backends":        "backends",
	"runs":            "runs",
	"temperature":     "temperature",
	"seed":            "mockSeed",
	"openai-model":    "models.openai",
	"anthropic-model": "models.anthropic",
	"gemini-model":    "models.gemini",
	"llamacpp-model":  "models.llamacpp",
	"llamacpp-url":    "llamacppURL",
	"ground-truth":    "groundTruth",
}

var rootCmd = &cobra.Command{
	Use:           "biaslens",
	Short:         "Prompt-framing bias experiments for LLM sports-stats narratives",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Defaults, then config file, then environment.
		configPath, err := ensureConfigLoaded()
		if err != nil {
			return err
		}

		// 2) Flags of the running command win over everything else.
		var bindErr error
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
				bindErr = viper.BindPFlag(key, f)
			}
		})
		if bindErr != nil {
			return bindErr
		}
		if f := cmd.Flags().Lookup("pacing"); f != nil && f.Changed {
			pacing, err := cmd.Flags().GetDuration("pacing")
			if err != nil {
				return err
			}
			viper.Set("pacingMillis", pacing.Milliseconds())
		}

		// 3) Materialize the merged configuration for the commands.
		cfg := appconfig.Defaults()
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ApplyDefaults()
		cfg.ConfigPath = configPath
		currentConfig = &cfg

		return logging.Init(cfg.LogFilePath())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Close()
	},
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errTag("[ERROR]"), err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug output")
	rootCmd.PersistentFlags().String("logFile", "", "append log output to this file")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	viper.SetEnvPrefix("BIASLENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// ensureConfigLoaded registers defaults and reads the config file if it exists.
// It returns the path of the file that was read, or "" when none was.
func ensureConfigLoaded() (string, error) {
	d := appconfig.Defaults()
	viper.SetDefault("debug", d.Debug)
	viper.SetDefault("logFile", d.LogFile)
	viper.SetDefault("promptDir", d.PromptDir)
	viper.SetDefault("results", d.ResultsPath)
	viper.SetDefault("analysisDir", d.AnalysisDir)
	viper.SetDefault("validationReport", d.ValidationReport)
	viper.SetDefault("groundTruth", d.GroundTruthPath)
	viper.SetDefault("backends", d.Backends)
	viper.SetDefault("runs", d.Runs)
	viper.SetDefault("temperature", d.Temperature)
	viper.SetDefault("pacingMillis", d.PacingMillis)
	viper.SetDefault("timeout", d.TimeoutSeconds)
	viper.SetDefault("systemPrompt", d.SystemPrompt)
	viper.SetDefault("mockSeed", d.MockSeed)
	viper.SetDefault("models.openai", d.Models.OpenAI)
	viper.SetDefault("models.anthropic", d.Models.Anthropic)
	viper.SetDefault("models.gemini", d.Models.Gemini)
	viper.SetDefault("models.llamacpp", d.Models.LlamaCpp)
	viper.SetDefault("models.mock", d.Models.Mock)
	viper.SetDefault("llamacppURL", d.LlamaCppURL)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			// No file: defaults, environment and flags still apply.
			return "", nil
		}
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return viper.ConfigFileUsed(), nil
}

// getConfig returns the merged configuration of the running command.
func getConfig() *appconfig.Config {
	return currentConfig
}

func DebugEnabled() bool { return viper.GetBool("debug") }
