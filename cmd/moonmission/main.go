// moonmission simulates a rocket launched from low earth orbit toward the
// moon. An operator plans timed rocket commands, previews the trajectory
// they produce and commits them to the live simulation.
//
// Usage:
//
//	moonmission run                 - Run a live session driven from stdin
//	moonmission predict             - Forecast a plan without a live session
//	moonmission config init <path>  - Write the default configuration
//
// Global flags:
//
//	--config <path>      - Configuration file (json, yaml or toml)
//	--log-level <level>  - DEBUG, INFO, WARN or ERROR
//	--log-format <fmt>   - text, logfmt or json
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opd-ai/go-moonmission/pkg/config"
	"github.com/opd-ai/go-moonmission/pkg/logging"
)

var (
	// Global flags
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "moonmission",
	Short: "Plan, predict and fly a rocket from earth orbit to the moon",
	Long: `moonmission simulates an earth, a moon and a fuel-limited rocket under
mutual gravity. Rocket commands are planned first, previewed by a
trajectory predictor, and only then committed to the live simulation.

Available commands:
  run      - Live session reading commands from stdin
  predict  - Headless trajectory forecast for a plan
  config   - Configuration helpers

Examples:
  moonmission run --duration 2m
  moonmission predict --steps accelerate:300,nothing:2000
  moonmission predict --plan transfer.yaml
  moonmission config init mission.yaml`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to configuration file (defaults plus MOONMISSION_* env when empty)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: DEBUG, INFO, WARN, ERROR")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: text, logfmt, json")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig reads the configuration named by --config
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, logging.WrapError(err, "loading config %q", flagConfig)
	}
	return cfg, nil
}

// newLogger builds the process logger. Flags win over MOONMISSION_LOG_*
// variables, which win over the config file.
func newLogger(cfg *config.Config) *logging.Logger {
	level := firstNonEmpty(flagLogLevel, os.Getenv("MOONMISSION_LOG_LEVEL"), cfg.LogLevel)
	format := firstNonEmpty(flagLogFormat, os.Getenv("MOONMISSION_LOG_FORMAT"), cfg.LogFormat)
	return logging.NewLoggerWithOptions(os.Stderr, logging.ParseLevel(level), logging.ParseFormat(format))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
