package validation

import "fmt"

// Threshold adjustment bounds and step sizes. Clamping here is deliberate,
// bounded calibration arithmetic, not error recovery: configs supplied from
// outside are still rejected by Validate, never clamped.
const (
	approveRaiseStep = 0.05
	approveLowerStep = 0.02
	rejectLowerStep  = 0.05

	approveCeiling = 0.95
	approveFloor   = 0.65
	rejectFloor    = 0.30

	// falsePositiveHigh triggers raising the approve threshold.
	falsePositiveHigh = 0.05
	// falsePositiveLow, with high accuracy, allows lowering it.
	falsePositiveLow = 0.02
	// falseNegativeHigh triggers lowering the reject threshold.
	falseNegativeHigh = 0.05
	// accuracyHigh is the overall accuracy required to lower the approve
	// threshold.
	accuracyHigh = 0.90

	// factorActiveScore is the score above which a factor counts as having
	// contributed to a decision for correlation purposes.
	factorActiveScore = 0.7
	// correlationStrong and correlationWeak gate the weight multipliers.
	correlationStrong = 0.8
	correlationWeak   = 0.5

	weightBoost = 1.1
	weightDamp  = 0.9

	// maxExpectedImprovement bounds the heuristic accuracy estimate.
	maxExpectedImprovement = 0.10
)

// CalculateThresholdUpdate recalibrates thresholds and factor weights from
// accumulated human feedback.
//
// It is a pure function of the feedback set and the current config: it never
// mutates the active config, and applying the recommendation is a separate
// caller action (ApplyThresholdUpdate). With zero feedback it returns the
// unchanged config with an explicit reason, never a fabricated
// recommendation.
func CalculateThresholdUpdate(feedback []ValidationFeedback, cfg ThresholdConfig) ThresholdUpdate {
	if len(feedback) == 0 {
		return ThresholdUpdate{
			Previous:      cfg,
			Recommended:   cfg,
			UpdateReasons: []string{"no feedback provided"},
		}
	}

	total := float64(len(feedback))
	var correct, falsePositives, falseNegatives int
	for _, fb := range feedback {
		if decisionCorrect(fb) {
			correct++
		}
		if fb.Original.Decision == DecisionAutoApprove && fb.HumanDecision != HumanValidated {
			falsePositives++
		}
		if fb.Original.Decision == DecisionAutoReject && fb.HumanDecision == HumanValidated {
			falseNegatives++
		}
	}

	fpRate := float64(falsePositives) / total
	fnRate := float64(falseNegatives) / total
	accuracy := float64(correct) / total

	rec := cfg
	var reasons []string
	var improvement float64

	switch {
	case fpRate > falsePositiveHigh:
		rec.AutoApprove = minF(cfg.AutoApprove+approveRaiseStep, approveCeiling)
		reasons = append(reasons, fmt.Sprintf(
			"false-positive rate %.1f%% exceeds %.0f%%; raised auto-approve threshold from %.2f to %.2f",
			fpRate*100, falsePositiveHigh*100, cfg.AutoApprove, rec.AutoApprove))
		improvement += fpRate / 2
	case fpRate < falsePositiveLow && accuracy > accuracyHigh:
		lowered := maxF(cfg.AutoApprove-approveLowerStep, approveFloor)
		// Never collapse the needs-review zone.
		if lowered > rec.AutoReject {
			rec.AutoApprove = lowered
			reasons = append(reasons, fmt.Sprintf(
				"false-positive rate %.1f%% below %.0f%% with accuracy %.1f%%; lowered auto-approve threshold from %.2f to %.2f",
				fpRate*100, falsePositiveLow*100, accuracy*100, cfg.AutoApprove, rec.AutoApprove))
			improvement += 0.01
		}
	}

	if fnRate > falseNegativeHigh {
		rec.AutoReject = maxF(cfg.AutoReject-rejectLowerStep, rejectFloor)
		reasons = append(reasons, fmt.Sprintf(
			"false-negative rate %.1f%% exceeds %.0f%%; lowered auto-reject threshold from %.2f to %.2f",
			fnRate*100, falseNegativeHigh*100, cfg.AutoReject, rec.AutoReject))
		improvement += fnRate / 2
	}

	weightReasons := adjustWeights(&rec.Weights, feedback)
	reasons = append(reasons, weightReasons...)
	improvement += 0.01 * float64(len(weightReasons))

	if len(reasons) == 0 {
		reasons = append(reasons, "feedback consistent with current thresholds; no adjustment recommended")
	}

	return ThresholdUpdate{
		Previous:                    cfg,
		Recommended:                 rec,
		UpdateReasons:               reasons,
		ExpectedAccuracyImprovement: minF(improvement, maxExpectedImprovement),
	}
}

// ApplyThresholdUpdate validates and returns the recommended config.
//
// Keeping the apply step explicit preserves the single-writer discipline:
// the caller swaps the active config between batches, never mid-batch.
func ApplyThresholdUpdate(update ThresholdUpdate) (ThresholdConfig, error) {
	if err := update.Recommended.Validate(); err != nil {
		return ThresholdConfig{}, fmt.Errorf("recommended config invalid: %w", err)
	}
	return update.Recommended, nil
}

// decisionCorrect classifies one feedback item. Auto-approve is correct iff
// the human validated it, auto-reject iff the human rejected it, and
// needs-review is always correct since it deferred to a human.
func decisionCorrect(fb ValidationFeedback) bool {
	switch fb.Original.Decision {
	case DecisionAutoApprove:
		return fb.HumanDecision == HumanValidated
	case DecisionAutoReject:
		return fb.HumanDecision == HumanRejected
	default:
		return true
	}
}

// adjustWeights applies the per-factor correlation rule: among feedback
// where a factor scored above factorActiveScore, a correlation with correct
// decisions above correlationStrong boosts the weight, below correlationWeak
// damps it. Weights are renormalized to sum to 1.0 afterwards.
func adjustWeights(weights *FactorWeights, feedback []ValidationFeedback) []string {
	var reasons []string

	for _, factor := range AllFactors {
		var active, activeCorrect int
		for _, fb := range feedback {
			if fb.Original.Factors.Value(factor) <= factorActiveScore {
				continue
			}
			active++
			if decisionCorrect(fb) {
				activeCorrect++
			}
		}
		if active == 0 {
			continue
		}

		correlation := float64(activeCorrect) / float64(active)
		switch {
		case correlation > correlationStrong:
			weights.scale(factor, weightBoost)
			reasons = append(reasons, fmt.Sprintf(
				"factor %s correlated with correct decisions %.0f%% of the time; weight increased", factor, correlation*100))
		case correlation < correlationWeak:
			weights.scale(factor, weightDamp)
			reasons = append(reasons, fmt.Sprintf(
				"factor %s correlated with correct decisions only %.0f%% of the time; weight decreased", factor, correlation*100))
		}
	}

	if len(reasons) > 0 {
		weights.normalize()
	}
	return reasons
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
