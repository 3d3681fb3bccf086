package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdConfig_DefaultIsValid(t *testing.T) {
	cfg := DefaultThresholdConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.75, cfg.AutoApprove)
	assert.Equal(t, 0.50, cfg.AutoReject)
	assert.InDelta(t, 1.0, cfg.Weights.Sum(), weightEpsilon)
}

func TestThresholdConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ThresholdConfig)
		wantErr error
	}{
		{
			name:   "valid default",
			mutate: func(c *ThresholdConfig) {},
		},
		{
			name:    "approve above one",
			mutate:  func(c *ThresholdConfig) { c.AutoApprove = 1.1 },
			wantErr: ErrThresholdOutOfRange,
		},
		{
			name:    "reject below zero",
			mutate:  func(c *ThresholdConfig) { c.AutoReject = -0.1 },
			wantErr: ErrThresholdOutOfRange,
		},
		{
			name: "approve not above reject",
			mutate: func(c *ThresholdConfig) {
				c.AutoApprove = 0.5
				c.AutoReject = 0.5
			},
			wantErr: ErrThresholdOrder,
		},
		{
			name:    "weights not summing to one",
			mutate:  func(c *ThresholdConfig) { c.Weights.ContentQuality = 0.5 },
			wantErr: ErrWeightsNotNormalized,
		},
		{
			name: "negative weight",
			mutate: func(c *ThresholdConfig) {
				c.Weights.ContentQuality = -0.2
				c.Weights.ExtractionConfidence = 0.6
			},
			wantErr: ErrNegativeWeight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultThresholdConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestDecide_ZonesAreExhaustiveAndNonOverlapping(t *testing.T) {
	// Every confidence value in [0,1] maps to exactly one decision.
	cfg := DefaultThresholdConfig()

	for i := 0; i <= 100; i++ {
		confidence := float64(i) / 100
		d := Decide(confidence, cfg)

		require.True(t, d.Valid(), "confidence %.2f produced invalid decision", confidence)
		switch {
		case confidence >= cfg.AutoApprove:
			assert.Equal(t, DecisionAutoApprove, d)
		case confidence <= cfg.AutoReject:
			assert.Equal(t, DecisionAutoReject, d)
		default:
			assert.Equal(t, DecisionNeedsReview, d)
		}
	}
}

func TestDecision_Valid(t *testing.T) {
	assert.True(t, DecisionAutoApprove.Valid())
	assert.True(t, DecisionNeedsReview.Valid())
	assert.True(t, DecisionAutoReject.Valid())
	assert.False(t, Decision("maybe").Valid())
	assert.False(t, Decision("").Valid())
}

func TestConfidenceFactors_Combine(t *testing.T) {
	// All factors at 0.9 under equal weights combine to 0.9.
	factors := ConfidenceFactors{
		ExtractionConfidence: 0.9,
		EmotionalCoherence:   0.9,
		RelationshipAccuracy: 0.9,
		TemporalConsistency:  0.9,
		ContentQuality:       0.9,
	}
	cfg := DefaultThresholdConfig()

	assert.InDelta(t, 0.9, factors.Combine(cfg.Weights), 1e-9)
	assert.Equal(t, DecisionAutoApprove, Decide(factors.Combine(cfg.Weights), cfg))
}

func TestConfidenceFactors_CombineRespectsWeights(t *testing.T) {
	factors := ConfidenceFactors{ExtractionConfidence: 1.0}
	weights := FactorWeights{ExtractionConfidence: 1.0}

	assert.InDelta(t, 1.0, factors.Combine(weights), 1e-9)

	weights = FactorWeights{ContentQuality: 1.0}
	assert.InDelta(t, 0.0, factors.Combine(weights), 1e-9)
}

func TestFactorWeights_Normalize(t *testing.T) {
	w := FactorWeights{
		ExtractionConfidence: 0.4,
		EmotionalCoherence:   0.4,
		RelationshipAccuracy: 0.4,
		TemporalConsistency:  0.4,
		ContentQuality:       0.4,
	}
	w.normalize()
	assert.InDelta(t, 1.0, w.Sum(), weightEpsilon)

	// A zero weight set resets to equal weights.
	var zero FactorWeights
	zero.normalize()
	assert.InDelta(t, 0.2, zero.ExtractionConfidence, weightEpsilon)
	assert.InDelta(t, 1.0, zero.Sum(), weightEpsilon)
}
