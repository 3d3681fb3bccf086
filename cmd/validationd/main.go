// Package main implements the validationd CLI for batch validation of
// extracted memory records.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/validationd/internal/config"
	"github.com/fyrsmithlabs/validationd/internal/logging"
	"github.com/fyrsmithlabs/validationd/internal/telemetry"
)

var (
	// configPath is the YAML config file; empty means defaults plus env.
	configPath string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "validationd",
	Short: "Validation decision engine for extracted memories",
	Long: `validationd decides, for each candidate memory produced by an upstream
extraction pipeline, whether it can be auto-approved, must be auto-rejected,
or needs human review - and, for records needing review, in what order a
human should examine them.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(calibrateCmd)
	rootCmd.AddCommand(prioritizeCmd)
	rootCmd.AddCommand(sampleCmd)
}

// setup loads config and builds the logger and telemetry shared by all
// commands. The returned cleanup flushes both and must be deferred.
func setup() (*config.Config, *logging.Logger, func(), error) {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	level, err := logging.LevelFromString(cfg.Logging.Level)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}

	logCfg := logging.NewDefaultConfig()
	logCfg.Level = level
	logCfg.Format = cfg.Logging.Format
	if logCfg.Format == "console" {
		// Console output goes to a human; drop caller noise.
		logCfg.Caller.Enabled = false
	}

	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return nil, nil, nil, err
	}

	telCfg := cfg.Telemetry.Telemetry()
	telCfg.ServiceVersion = version
	tel, err := telemetry.New(context.Background(), telCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	if tel.IsDegraded() {
		logger.Warn(context.Background(), "telemetry degraded, continuing without export")
	}

	cleanup := func() {
		_ = tel.Shutdown(context.Background())
		_ = logger.Sync()
	}
	return cfg, logger, cleanup, nil
}
