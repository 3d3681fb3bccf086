package main

import (
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/validationd/internal/priority"
	"github.com/fyrsmithlabs/validationd/internal/significance"
)

var prioritizeOptimize bool

var prioritizeCmd = &cobra.Command{
	Use:   "prioritize [memories.json]",
	Short: "Build an ordered review queue from memories needing review",
	Long: `Score each memory's significance and build a ranked review queue.

With --optimize, the queue is additionally optimized under the review
resources from the config (validator expertise and available time).

Examples:
  # Build the full ranked queue
  validationd prioritize memories.json

  # Optimize the queue for the configured reviewer
  validationd prioritize --optimize memories.json`,
	Args: cobra.ExactArgs(1),
	RunE: runPrioritize,
}

func init() {
	prioritizeCmd.Flags().BoolVar(&prioritizeOptimize, "optimize", false, "optimize the queue under the configured review resources")
}

func runPrioritize(cmd *cobra.Command, args []string) error {
	cfg, logger, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	mems, err := readMemories(args[0])
	if err != nil {
		return err
	}

	weighter := significance.NewWeighter(logger.Underlying())
	scored := make([]priority.ScoredMemory, 0, len(mems))
	for _, mem := range mems {
		scored = append(scored, priority.ScoredMemory{
			Memory:       mem,
			Significance: weighter.CalculateSignificance(mem),
		})
	}

	manager := priority.NewManager(logger.Underlying())
	list := manager.CreatePrioritizedList(scored)

	if !prioritizeOptimize {
		return writeJSON(list)
	}

	optimized, err := manager.OptimizeReviewQueue(list, priority.ResourceAllocation{
		AvailableTime:      cfg.Review.AvailableTime.Duration(),
		ValidatorExpertise: priority.Expertise(cfg.Review.ValidatorExpertise),
	})
	if err != nil {
		return err
	}
	return writeJSON(optimized)
}
