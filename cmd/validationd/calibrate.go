package main

import (
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/validationd/internal/validation"
)

var calibrateApply bool

var calibrateCmd = &cobra.Command{
	Use:   "calibrate [feedback.json]",
	Short: "Compute a threshold recalibration from human feedback",
	Long: `Compute a recommended threshold update from accumulated review feedback.

The input is a JSON array of validation feedback records; use "-" to read
from stdin. The active config is never changed: the command prints the
recommendation, and with --apply prints the validated recommended config
ready to paste into the thresholds section of the config file.

Examples:
  # Show the recommended update
  validationd calibrate feedback.json

  # Print only the validated recommended config
  validationd calibrate --apply feedback.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCalibrate,
}

func init() {
	calibrateCmd.Flags().BoolVar(&calibrateApply, "apply", false, "print the validated recommended config instead of the full update")
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	cfg, _, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	feedback, err := readFeedback(args[0])
	if err != nil {
		return err
	}

	update := validation.CalculateThresholdUpdate(feedback, cfg.Thresholds)
	if calibrateApply {
		applied, err := validation.ApplyThresholdUpdate(update)
		if err != nil {
			return err
		}
		return writeJSON(applied)
	}
	return writeJSON(update)
}
