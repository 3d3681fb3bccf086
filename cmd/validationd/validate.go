package main

import (
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/validationd/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate [memories.json]",
	Short: "Evaluate a batch of memories against the configured thresholds",
	Long: `Evaluate a batch of memory records and print the per-record decisions.

The input is a JSON array of memory records; use "-" to read from stdin.

Examples:
  # Validate a batch
  validationd validate memories.json

  # Validate from stdin with a custom config
  cat memories.json | validationd validate --config config.yaml -`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, logger, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	mems, err := readMemories(args[0])
	if err != nil {
		return err
	}

	engine := validation.NewEngine(logger.Underlying())
	result, err := engine.ProcessBatch(cmd.Context(), mems, cfg.Thresholds)
	if err != nil {
		return err
	}

	return writeJSON(result)
}
