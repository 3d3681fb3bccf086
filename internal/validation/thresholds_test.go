package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// approveFeedback builds a feedback item for an auto-approved result.
func approveFeedback(human HumanDecision) ValidationFeedback {
	return ValidationFeedback{
		Original:      AutoConfirmationResult{Decision: DecisionAutoApprove, Confidence: 0.8},
		HumanDecision: human,
	}
}

// rejectFeedback builds a feedback item for an auto-rejected result.
func rejectFeedback(human HumanDecision) ValidationFeedback {
	return ValidationFeedback{
		Original:      AutoConfirmationResult{Decision: DecisionAutoReject, Confidence: 0.3},
		HumanDecision: human,
	}
}

// reviewFeedback builds a feedback item for a deferred result.
func reviewFeedback(human HumanDecision) ValidationFeedback {
	return ValidationFeedback{
		Original:      AutoConfirmationResult{Decision: DecisionNeedsReview, Confidence: 0.6},
		HumanDecision: human,
	}
}

func repeat(fb ValidationFeedback, n int) []ValidationFeedback {
	out := make([]ValidationFeedback, n)
	for i := range out {
		out[i] = fb
	}
	return out
}

func TestCalculateThresholdUpdate_NoFeedback(t *testing.T) {
	cfg := DefaultThresholdConfig()

	update := CalculateThresholdUpdate(nil, cfg)

	assert.Equal(t, cfg, update.Previous)
	assert.Equal(t, cfg, update.Recommended)
	assert.Equal(t, []string{"no feedback provided"}, update.UpdateReasons)
	assert.Zero(t, update.ExpectedAccuracyImprovement)
}

func TestCalculateThresholdUpdate_HighFalsePositivesRaiseApprove(t *testing.T) {
	// 10 of 100 auto-approvals were overturned: 10% false positives.
	cfg := DefaultThresholdConfig()
	feedback := append(
		repeat(approveFeedback(HumanRejected), 10),
		repeat(reviewFeedback(HumanValidated), 90)...,
	)

	update := CalculateThresholdUpdate(feedback, cfg)

	assert.Equal(t, 0.80, update.Recommended.AutoApprove)
	assert.Equal(t, cfg.AutoReject, update.Recommended.AutoReject)
	assert.Equal(t, cfg, update.Previous)
	require.NotEmpty(t, update.UpdateReasons)
	assert.Contains(t, update.UpdateReasons[0], "false-positive rate")
	assert.Greater(t, update.ExpectedAccuracyImprovement, 0.0)
}

func TestCalculateThresholdUpdate_ApproveCeiling(t *testing.T) {
	// Repeated raises saturate at the ceiling.
	cfg := DefaultThresholdConfig()
	cfg.AutoApprove = 0.93
	feedback := repeat(approveFeedback(HumanRejected), 10)

	update := CalculateThresholdUpdate(feedback, cfg)
	assert.Equal(t, 0.95, update.Recommended.AutoApprove)

	update = CalculateThresholdUpdate(feedback, update.Recommended)
	assert.Equal(t, 0.95, update.Recommended.AutoApprove)
}

func TestCalculateThresholdUpdate_LowFalsePositivesWithHighAccuracyLowerApprove(t *testing.T) {
	// No false positives and 95% accuracy: the approve threshold relaxes.
	cfg := DefaultThresholdConfig()
	feedback := append(
		repeat(approveFeedback(HumanValidated), 95),
		repeat(rejectFeedback(HumanValidated), 5)...,
	)

	update := CalculateThresholdUpdate(feedback, cfg)

	assert.InDelta(t, 0.73, update.Recommended.AutoApprove, 1e-9)
	// 5% false negatives sits exactly at the trigger rate, which is not
	// above it, so the reject threshold stays put.
	assert.Equal(t, cfg.AutoReject, update.Recommended.AutoReject)
}

func TestCalculateThresholdUpdate_ApproveFloor(t *testing.T) {
	cfg := DefaultThresholdConfig()
	cfg.AutoApprove = 0.66
	feedback := repeat(approveFeedback(HumanValidated), 100)

	update := CalculateThresholdUpdate(feedback, cfg)
	assert.Equal(t, 0.65, update.Recommended.AutoApprove)

	update = CalculateThresholdUpdate(feedback, update.Recommended)
	assert.Equal(t, 0.65, update.Recommended.AutoApprove)
}

func TestCalculateThresholdUpdate_LoweringNeverCollapsesReviewZone(t *testing.T) {
	// With the approve threshold just above reject, lowering would invert the
	// ordering invariant, so the recommendation leaves it alone.
	cfg := DefaultThresholdConfig()
	cfg.AutoApprove = 0.51
	cfg.AutoReject = 0.50
	feedback := repeat(approveFeedback(HumanValidated), 100)

	update := CalculateThresholdUpdate(feedback, cfg)

	assert.Equal(t, 0.51, update.Recommended.AutoApprove)
	assert.NoError(t, update.Recommended.Validate())
}

func TestCalculateThresholdUpdate_HighFalseNegativesLowerReject(t *testing.T) {
	// 10 of 100 auto-rejections were overturned: 10% false negatives.
	cfg := DefaultThresholdConfig()
	feedback := append(
		repeat(rejectFeedback(HumanValidated), 10),
		repeat(reviewFeedback(HumanValidated), 90)...,
	)

	update := CalculateThresholdUpdate(feedback, cfg)

	assert.Equal(t, 0.45, update.Recommended.AutoReject)
	assert.Equal(t, cfg.AutoApprove, update.Recommended.AutoApprove)
}

func TestCalculateThresholdUpdate_RejectFloor(t *testing.T) {
	cfg := DefaultThresholdConfig()
	cfg.AutoReject = 0.32
	feedback := repeat(rejectFeedback(HumanValidated), 10)

	update := CalculateThresholdUpdate(feedback, cfg)
	assert.Equal(t, 0.30, update.Recommended.AutoReject)

	update = CalculateThresholdUpdate(feedback, update.Recommended)
	assert.Equal(t, 0.30, update.Recommended.AutoReject)
}

func TestCalculateThresholdUpdate_ConsistentFeedbackRecommendsNoChange(t *testing.T) {
	// Error rates sit exactly at the boundaries: 2% false positives and 2%
	// false negatives trigger neither the raise nor the lower rules.
	cfg := DefaultThresholdConfig()
	feedback := append(
		repeat(approveFeedback(HumanRejected), 2),
		repeat(approveFeedback(HumanValidated), 38)...,
	)
	feedback = append(feedback, repeat(rejectFeedback(HumanValidated), 2)...)
	feedback = append(feedback, repeat(rejectFeedback(HumanRejected), 58)...)

	update := CalculateThresholdUpdate(feedback, cfg)

	assert.Equal(t, cfg.AutoApprove, update.Recommended.AutoApprove)
	assert.Equal(t, cfg.AutoReject, update.Recommended.AutoReject)
	require.Len(t, update.UpdateReasons, 1)
	assert.Contains(t, update.UpdateReasons[0], "no adjustment recommended")
}

func TestCalculateThresholdUpdate_StrongFactorCorrelationBoostsWeight(t *testing.T) {
	// Emotional coherence scored high on feedback items that all turned out
	// correct, so its weight grows relative to the others.
	cfg := DefaultThresholdConfig()
	fb := approveFeedback(HumanValidated)
	fb.Original.Factors = ConfidenceFactors{EmotionalCoherence: 0.9}
	feedback := repeat(fb, 20)

	update := CalculateThresholdUpdate(feedback, cfg)

	got := update.Recommended.Weights
	assert.Greater(t, got.EmotionalCoherence, got.ExtractionConfidence)
	assert.InDelta(t, 1.0, got.Sum(), weightEpsilon)
	assert.NoError(t, update.Recommended.Validate())
}

func TestCalculateThresholdUpdate_WeakFactorCorrelationDampsWeight(t *testing.T) {
	// Content quality scored high on approvals the humans overturned, so its
	// weight shrinks.
	cfg := DefaultThresholdConfig()
	fb := approveFeedback(HumanRejected)
	fb.Original.Factors = ConfidenceFactors{ContentQuality: 0.9}
	feedback := append(
		repeat(fb, 10),
		repeat(reviewFeedback(HumanValidated), 90)...,
	)

	update := CalculateThresholdUpdate(feedback, cfg)

	got := update.Recommended.Weights
	assert.Less(t, got.ContentQuality, got.ExtractionConfidence)
	assert.InDelta(t, 1.0, got.Sum(), weightEpsilon)
}

func TestCalculateThresholdUpdate_DoesNotMutateInput(t *testing.T) {
	cfg := DefaultThresholdConfig()
	before := cfg
	feedback := repeat(approveFeedback(HumanRejected), 10)

	_ = CalculateThresholdUpdate(feedback, cfg)

	assert.Equal(t, before, cfg)
}

func TestCalculateThresholdUpdate_ImprovementIsBounded(t *testing.T) {
	// Pile every rule on at once; the estimate still caps at 0.10.
	cfg := DefaultThresholdConfig()
	fpItem := approveFeedback(HumanRejected)
	fpItem.Original.Factors = ConfidenceFactors{
		ExtractionConfidence: 0.9,
		EmotionalCoherence:   0.9,
		RelationshipAccuracy: 0.9,
		TemporalConsistency:  0.9,
		ContentQuality:       0.9,
	}
	feedback := append(
		repeat(fpItem, 50),
		repeat(rejectFeedback(HumanValidated), 50)...,
	)

	update := CalculateThresholdUpdate(feedback, cfg)

	assert.LessOrEqual(t, update.ExpectedAccuracyImprovement, 0.10)
	assert.NoError(t, update.Recommended.Validate())
}

func TestApplyThresholdUpdate(t *testing.T) {
	cfg := DefaultThresholdConfig()
	update := CalculateThresholdUpdate(repeat(approveFeedback(HumanRejected), 10), cfg)

	applied, err := ApplyThresholdUpdate(update)
	require.NoError(t, err)
	assert.Equal(t, update.Recommended, applied)

	// A corrupted recommendation is rejected instead of applied.
	update.Recommended.AutoApprove = 0.2
	_, err = ApplyThresholdUpdate(update)
	assert.ErrorIs(t, err, ErrThresholdOrder)
}

func TestDecisionCorrect(t *testing.T) {
	assert.True(t, decisionCorrect(approveFeedback(HumanValidated)))
	assert.False(t, decisionCorrect(approveFeedback(HumanRejected)))
	assert.True(t, decisionCorrect(rejectFeedback(HumanRejected)))
	assert.False(t, decisionCorrect(rejectFeedback(HumanValidated)))

	// Needs-review deferred to a human, so it is correct either way.
	assert.True(t, decisionCorrect(reviewFeedback(HumanValidated)))
	assert.True(t, decisionCorrect(reviewFeedback(HumanRejected)))
}
