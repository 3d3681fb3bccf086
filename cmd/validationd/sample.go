package main

import (
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/validationd/internal/sampling"
)

var (
	sampleSize     int
	sampleSeed     int64
	sampleAnalyze  bool
	samplePlanOnly bool
)

var sampleCmd = &cobra.Command{
	Use:   "sample [memories.json]",
	Short: "Select a coverage-constrained sample from a review population",
	Long: `Select a representative subset of a needs-review population that is too
large for full review.

Examples:
  # Sample 50 memories reproducibly
  validationd sample --size 50 --seed 42 memories.json

  # Sample and report coverage gaps
  validationd sample --size 50 --analyze memories.json

  # Only plan a stratification strategy for the dataset
  validationd sample --plan memories.json`,
	Args: cobra.ExactArgs(1),
	RunE: runSample,
}

func init() {
	sampleCmd.Flags().IntVar(&sampleSize, "size", 0, "target sample size (default 10% of the population)")
	sampleCmd.Flags().Int64Var(&sampleSeed, "seed", 0, "seed for reproducible sampling")
	sampleCmd.Flags().BoolVar(&sampleAnalyze, "analyze", false, "include a coverage analysis of the sample")
	sampleCmd.Flags().BoolVar(&samplePlanOnly, "plan", false, "only print the recommended sampling strategy")
}

func runSample(cmd *cobra.Command, args []string) error {
	_, logger, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	mems, err := readMemories(args[0])
	if err != nil {
		return err
	}

	sampler := sampling.NewSampler(logger.Underlying())

	if samplePlanOnly {
		return writeJSON(sampler.OptimizeValidationEfficiency(mems))
	}

	sample, err := sampler.SampleForValidation(mems, sampling.CoverageRequirements{
		SampleSize: sampleSize,
		Seed:       sampleSeed,
	})
	if err != nil {
		return err
	}

	if !sampleAnalyze {
		return writeJSON(sample)
	}

	return writeJSON(struct {
		Sample   sampling.SampledMemories  `json:"sample"`
		Coverage sampling.CoverageAnalysis `json:"coverage"`
	}{
		Sample:   sample,
		Coverage: sampler.EnsureRepresentativeCoverage(sample, mems),
	})
}
