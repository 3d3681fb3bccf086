package validation

import (
	"math"
	"time"
)

// weightEpsilon is the tolerance for the weights-sum-to-one invariant.
const weightEpsilon = 1e-6

// Decision is the three-way outcome of evaluating a memory.
type Decision string

const (
	// DecisionAutoApprove accepts the memory without human review.
	DecisionAutoApprove Decision = "auto-approve"

	// DecisionNeedsReview defers the memory to a human reviewer. This is the
	// safe default whenever scoring is ambiguous or partially failed.
	DecisionNeedsReview Decision = "needs-review"

	// DecisionAutoReject discards the memory without human review.
	DecisionAutoReject Decision = "auto-reject"
)

// Valid reports whether d is one of the three known decisions.
func (d Decision) Valid() bool {
	switch d {
	case DecisionAutoApprove, DecisionNeedsReview, DecisionAutoReject:
		return true
	}
	return false
}

// HumanDecision is a reviewer's verdict on a memory.
type HumanDecision string

const (
	// HumanValidated means the reviewer confirmed the memory as correct.
	HumanValidated HumanDecision = "validated"

	// HumanRejected means the reviewer discarded the memory.
	HumanRejected HumanDecision = "rejected"
)

// Factor identifies one of the five confidence factors.
type Factor string

const (
	FactorExtractionConfidence Factor = "extraction_confidence"
	FactorEmotionalCoherence   Factor = "emotional_coherence"
	FactorRelationshipAccuracy Factor = "relationship_accuracy"
	FactorTemporalConsistency  Factor = "temporal_consistency"
	FactorContentQuality       Factor = "content_quality"
)

// AllFactors lists the confidence factors in canonical order.
var AllFactors = []Factor{
	FactorExtractionConfidence,
	FactorEmotionalCoherence,
	FactorRelationshipAccuracy,
	FactorTemporalConsistency,
	FactorContentQuality,
}

// ConfidenceFactors holds the five factor scores for one evaluation,
// each in [0,1].
type ConfidenceFactors struct {
	ExtractionConfidence float64 `json:"extraction_confidence"`
	EmotionalCoherence   float64 `json:"emotional_coherence"`
	RelationshipAccuracy float64 `json:"relationship_accuracy"`
	TemporalConsistency  float64 `json:"temporal_consistency"`
	ContentQuality       float64 `json:"content_quality"`
}

// Value returns the score for a single factor.
func (f ConfidenceFactors) Value(factor Factor) float64 {
	switch factor {
	case FactorExtractionConfidence:
		return f.ExtractionConfidence
	case FactorEmotionalCoherence:
		return f.EmotionalCoherence
	case FactorRelationshipAccuracy:
		return f.RelationshipAccuracy
	case FactorTemporalConsistency:
		return f.TemporalConsistency
	case FactorContentQuality:
		return f.ContentQuality
	}
	return 0
}

// Combine computes the weighted confidence from the factor scores.
func (f ConfidenceFactors) Combine(w FactorWeights) float64 {
	return f.ExtractionConfidence*w.ExtractionConfidence +
		f.EmotionalCoherence*w.EmotionalCoherence +
		f.RelationshipAccuracy*w.RelationshipAccuracy +
		f.TemporalConsistency*w.TemporalConsistency +
		f.ContentQuality*w.ContentQuality
}

// FactorWeights holds the relative weight of each confidence factor.
// A valid weight set is non-negative and sums to 1.0 within weightEpsilon.
type FactorWeights struct {
	ExtractionConfidence float64 `json:"extraction_confidence" koanf:"extraction_confidence"`
	EmotionalCoherence   float64 `json:"emotional_coherence" koanf:"emotional_coherence"`
	RelationshipAccuracy float64 `json:"relationship_accuracy" koanf:"relationship_accuracy"`
	TemporalConsistency  float64 `json:"temporal_consistency" koanf:"temporal_consistency"`
	ContentQuality       float64 `json:"content_quality" koanf:"content_quality"`
}

// Value returns the weight of a single factor.
func (w FactorWeights) Value(factor Factor) float64 {
	switch factor {
	case FactorExtractionConfidence:
		return w.ExtractionConfidence
	case FactorEmotionalCoherence:
		return w.EmotionalCoherence
	case FactorRelationshipAccuracy:
		return w.RelationshipAccuracy
	case FactorTemporalConsistency:
		return w.TemporalConsistency
	case FactorContentQuality:
		return w.ContentQuality
	}
	return 0
}

// scale multiplies a single factor's weight in place.
func (w *FactorWeights) scale(factor Factor, mult float64) {
	switch factor {
	case FactorExtractionConfidence:
		w.ExtractionConfidence *= mult
	case FactorEmotionalCoherence:
		w.EmotionalCoherence *= mult
	case FactorRelationshipAccuracy:
		w.RelationshipAccuracy *= mult
	case FactorTemporalConsistency:
		w.TemporalConsistency *= mult
	case FactorContentQuality:
		w.ContentQuality *= mult
	}
}

// Sum returns the total of all weights.
func (w FactorWeights) Sum() float64 {
	return w.ExtractionConfidence + w.EmotionalCoherence +
		w.RelationshipAccuracy + w.TemporalConsistency + w.ContentQuality
}

// normalize rescales the weights so they sum to 1.0. A zero weight set is
// reset to equal weights.
func (w *FactorWeights) normalize() {
	sum := w.Sum()
	if sum == 0 {
		*w = equalWeights()
		return
	}
	w.ExtractionConfidence /= sum
	w.EmotionalCoherence /= sum
	w.RelationshipAccuracy /= sum
	w.TemporalConsistency /= sum
	w.ContentQuality /= sum
}

func equalWeights() FactorWeights {
	return FactorWeights{
		ExtractionConfidence: 0.2,
		EmotionalCoherence:   0.2,
		RelationshipAccuracy: 0.2,
		TemporalConsistency:  0.2,
		ContentQuality:       0.2,
	}
}

// ThresholdConfig holds the decision thresholds and factor weights for
// confidence scoring.
//
// The config is read-mostly: a batch reads one immutable snapshot at batch
// start, and only the threshold manager produces replacements, between
// batches. It is passed by value everywhere to keep that discipline honest.
type ThresholdConfig struct {
	// AutoApprove is the confidence at or above which memories are approved
	// without review.
	AutoApprove float64 `json:"auto_approve_threshold" koanf:"auto_approve"`

	// AutoReject is the confidence at or below which memories are rejected
	// without review.
	AutoReject float64 `json:"auto_reject_threshold" koanf:"auto_reject"`

	// Weights are the factor weights used to combine confidence factors.
	Weights FactorWeights `json:"weights" koanf:"weights"`
}

// DefaultThresholdConfig returns the default thresholds (approve 0.75,
// reject 0.50) with equal factor weights.
func DefaultThresholdConfig() ThresholdConfig {
	return ThresholdConfig{
		AutoApprove: 0.75,
		AutoReject:  0.50,
		Weights:     equalWeights(),
	}
}

// Validate checks the config invariants: thresholds in [0,1] with
// AutoApprove > AutoReject, and non-negative weights summing to 1.0.
func (c ThresholdConfig) Validate() error {
	if c.AutoApprove < 0 || c.AutoApprove > 1 || c.AutoReject < 0 || c.AutoReject > 1 {
		return ErrThresholdOutOfRange
	}
	if c.AutoApprove <= c.AutoReject {
		return ErrThresholdOrder
	}
	for _, f := range AllFactors {
		if c.Weights.Value(f) < 0 {
			return ErrNegativeWeight
		}
	}
	if math.Abs(c.Weights.Sum()-1.0) > weightEpsilon {
		return ErrWeightsNotNormalized
	}
	return nil
}

// AutoConfirmationResult is the outcome of evaluating a single memory.
// It is immutable once produced.
type AutoConfirmationResult struct {
	// MemoryID identifies the evaluated memory.
	MemoryID string `json:"memory_id"`

	// Decision is the three-way disposition.
	Decision Decision `json:"decision"`

	// Confidence is the weighted combination of the five factors.
	Confidence float64 `json:"confidence"`

	// Factors are the individual factor scores.
	Factors ConfidenceFactors `json:"confidence_factors"`

	// Significance is the memory's overall significance score, computed
	// independently of confidence. Scores at or above the escalation
	// threshold force needs-review.
	Significance float64 `json:"significance"`

	// Reasons explain the decision, including any defaulted inputs or
	// recovered per-record failures.
	Reasons []string `json:"reasons"`

	// SuggestedActions are optional hints for the reviewer.
	SuggestedActions []string `json:"suggested_actions,omitempty"`
}

// BatchResult aggregates the results of processing one batch.
type BatchResult struct {
	// BatchID is a unique identifier for this batch run.
	BatchID string `json:"batch_id"`

	// Results holds one result per processed memory, in input order.
	Results []AutoConfirmationResult `json:"results"`

	// Approved, NeedsReview, and Rejected count results per decision.
	Approved    int `json:"approved"`
	NeedsReview int `json:"needs_review"`
	Rejected    int `json:"rejected"`

	// Failed counts records whose evaluation fell back after an internal
	// failure. Failed records still receive a needs-review result.
	Failed int `json:"failed"`

	// Processed is the number of records evaluated. It is less than the
	// input size when the caller cancelled the batch early.
	Processed int `json:"processed"`

	// Stopped reports whether the batch ended early via context
	// cancellation.
	Stopped bool `json:"stopped,omitempty"`

	// Duration is the wall time spent processing the batch.
	Duration time.Duration `json:"duration"`
}

// ValidationFeedback is a reviewer's verdict on one prior evaluation.
// Each feedback record is consumed exactly once by a threshold update cycle.
type ValidationFeedback struct {
	// MemoryID identifies the memory the feedback is about.
	MemoryID string `json:"memory_id"`

	// Original is the engine's result the human reviewed.
	Original AutoConfirmationResult `json:"original_result"`

	// HumanDecision is the reviewer's verdict.
	HumanDecision HumanDecision `json:"human_decision"`

	// Feedback is optional free-text commentary.
	Feedback string `json:"feedback,omitempty"`

	// Timestamp is when the verdict was recorded.
	Timestamp time.Time `json:"timestamp"`
}

// ThresholdUpdate is a recommended recalibration of the threshold config.
//
// Producing an update never mutates the active config; applying the
// recommendation is a separate, explicit caller action.
type ThresholdUpdate struct {
	// Previous is the config the update was computed against.
	Previous ThresholdConfig `json:"previous_thresholds"`

	// Recommended is the recalibrated config.
	Recommended ThresholdConfig `json:"recommended_thresholds"`

	// UpdateReasons lists one human-readable reason per triggered rule.
	UpdateReasons []string `json:"update_reasons"`

	// ExpectedAccuracyImprovement is a bounded heuristic estimate of the
	// accuracy gain from applying the recommendation, at most 0.10.
	ExpectedAccuracyImprovement float64 `json:"expected_accuracy_improvement"`
}
