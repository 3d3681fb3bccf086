// Package validation decides, per extracted memory, whether it can be
// auto-approved, must be auto-rejected, or needs human review.
//
// Confidence is the weighted combination of five factor scores under a
// ThresholdConfig snapshot. The two thresholds partition [0,1] into exactly
// three zones because AutoApprove > AutoReject is an enforced invariant.
// Per-record scoring is a pure function of its inputs and the config
// snapshot; it performs no I/O.
package validation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/validationd/internal/schema"
	"github.com/fyrsmithlabs/validationd/internal/significance"
)

// EscalationThreshold is the significance at or above which a memory is
// forced to needs-review even when confidence alone would auto-approve.
// Significance can only escalate scrutiny, never bypass it. The coupling
// lives here, at evaluation time, so queueing never has to re-derive it.
const EscalationThreshold = 0.9

// Engine evaluates memories against a threshold config snapshot.
type Engine struct {
	logger   *zap.Logger
	weighter *significance.Weighter
	metrics  *Metrics
	now      func() time.Time
}

// NewEngine creates a validation engine.
//
// A nil logger is replaced with a no-op logger. Metric registration failures
// degrade to no-op metrics rather than failing construction.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics, err := NewMetrics(nil)
	if err != nil {
		logger.Warn("metrics initialization failed, continuing without", zap.Error(err))
		metrics = nil
	}
	return &Engine{
		logger:   logger,
		weighter: significance.NewWeighter(logger),
		metrics:  metrics,
		now:      time.Now,
	}
}

// Decide maps a confidence value to its decision zone under cfg.
// The zones are exhaustive and non-overlapping for any valid config.
func Decide(confidence float64, cfg ThresholdConfig) Decision {
	switch {
	case confidence >= cfg.AutoApprove:
		return DecisionAutoApprove
	case confidence <= cfg.AutoReject:
		return DecisionAutoReject
	default:
		return DecisionNeedsReview
	}
}

// EvaluateMemory scores a single memory and issues a three-way decision.
//
// The returned error is non-nil only for an invalid config; per-record
// problems (nil record, missing sub-structures) produce a needs-review
// result with explanatory reasons instead, so a batch never aborts on one
// record.
func (e *Engine) EvaluateMemory(ctx context.Context, mem *schema.Memory, cfg ThresholdConfig) (AutoConfirmationResult, error) {
	if err := cfg.Validate(); err != nil {
		return AutoConfirmationResult{}, fmt.Errorf("invalid threshold config: %w", err)
	}

	result := e.evaluate(ctx, mem, cfg)
	if e.metrics != nil {
		e.metrics.RecordDecision(ctx, result.Decision, result.Confidence)
	}
	return result, nil
}

// evaluate performs the actual scoring. Config is assumed valid.
func (e *Engine) evaluate(ctx context.Context, mem *schema.Memory, cfg ThresholdConfig) AutoConfirmationResult {
	if mem == nil {
		return AutoConfirmationResult{
			Decision:   DecisionNeedsReview,
			Confidence: 0.5,
			Factors:    neutralFactors(),
			Reasons:    []string{"no memory record provided; deferred to human review"},
		}
	}

	var reasons []string
	factors := ConfidenceFactors{
		ExtractionConfidence: e.extractionFactor(mem, &reasons),
		EmotionalCoherence:   e.coherenceFactor(mem, &reasons),
		RelationshipAccuracy: e.relationshipFactor(mem, &reasons),
		TemporalConsistency:  e.temporalFactor(mem, &reasons),
		ContentQuality:       e.contentFactor(mem, &reasons),
	}

	confidence := factors.Combine(cfg.Weights)
	decision := Decide(confidence, cfg)
	reasons = append(reasons, decisionReason(decision, confidence, cfg))

	sig := e.weighter.CalculateSignificance(mem)
	if sig.Overall >= EscalationThreshold && decision == DecisionAutoApprove {
		decision = DecisionNeedsReview
		reasons = append(reasons, fmt.Sprintf(
			"significance %.2f exceeds escalation threshold %.2f; forced human review", sig.Overall, EscalationThreshold))
	}

	return AutoConfirmationResult{
		MemoryID:         mem.ID,
		Decision:         decision,
		Confidence:       confidence,
		Factors:          factors,
		Significance:     sig.Overall,
		Reasons:          reasons,
		SuggestedActions: suggestedActions(decision, factors),
	}
}

// ProcessBatch evaluates each memory under one config snapshot and
// aggregates counts and timing.
//
// One record's failure never aborts the batch: a panicking evaluation is
// recovered into a needs-review result and counted in Failed. The context is
// checked between items so callers can stop a large batch early; partial
// results are returned alongside ctx.Err() in that case.
func (e *Engine) ProcessBatch(ctx context.Context, mems []*schema.Memory, cfg ThresholdConfig) (BatchResult, error) {
	if err := cfg.Validate(); err != nil {
		return BatchResult{}, fmt.Errorf("invalid threshold config: %w", err)
	}

	start := e.now()
	res := BatchResult{
		BatchID: uuid.New().String(),
		Results: make([]AutoConfirmationResult, 0, len(mems)),
	}

	ctx, span := StartBatchSpan(ctx, res.BatchID, len(mems))
	defer span.End()

	e.logger.Info("batch started",
		zap.String("batch_id", res.BatchID),
		zap.Int("size", len(mems)))

	var ctxErr error
	for _, mem := range mems {
		select {
		case <-ctx.Done():
			res.Stopped = true
			ctxErr = ctx.Err()
		default:
		}
		if res.Stopped {
			break
		}

		result, failed := e.safeEvaluate(ctx, mem, cfg)
		res.Results = append(res.Results, result)
		res.Processed++
		if failed {
			res.Failed++
			if e.metrics != nil {
				e.metrics.RecordFailure(ctx)
			}
		}
		if e.metrics != nil {
			e.metrics.RecordDecision(ctx, result.Decision, result.Confidence)
		}

		switch result.Decision {
		case DecisionAutoApprove:
			res.Approved++
		case DecisionAutoReject:
			res.Rejected++
		default:
			res.NeedsReview++
		}
	}

	res.Duration = e.now().Sub(start)
	if e.metrics != nil {
		e.metrics.RecordBatch(ctx, res.Processed, res.Duration)
	}

	e.logger.Info("batch completed",
		zap.String("batch_id", res.BatchID),
		zap.Int("processed", res.Processed),
		zap.Int("approved", res.Approved),
		zap.Int("needs_review", res.NeedsReview),
		zap.Int("rejected", res.Rejected),
		zap.Int("failed", res.Failed),
		zap.Bool("stopped", res.Stopped),
		zap.Duration("duration", res.Duration))

	return res, ctxErr
}

// safeEvaluate guards the per-record boundary: a panic inside evaluation is
// recovered into a needs-review fallback result.
func (e *Engine) safeEvaluate(ctx context.Context, mem *schema.Memory, cfg ThresholdConfig) (result AutoConfirmationResult, failed bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("evaluation panicked, deferring record to review",
				zap.Any("panic", r),
				zap.Stack("stack"))
			id := ""
			if mem != nil {
				id = mem.ID
			}
			result = AutoConfirmationResult{
				MemoryID:   id,
				Decision:   DecisionNeedsReview,
				Confidence: 0.5,
				Factors:    neutralFactors(),
				Reasons:    []string{"evaluation failed internally; deferred to human review"},
			}
			failed = true
		}
	}()

	result = e.evaluate(ctx, mem, cfg)
	if mem == nil {
		failed = true
	}
	return result, failed
}

// extractionFactor passes through the pipeline's own confidence.
func (e *Engine) extractionFactor(mem *schema.Memory, reasons *[]string) float64 {
	c := mem.ExtractionConfidence
	if c < 0 || c > 1 {
		*reasons = append(*reasons, "extraction confidence out of range; defaulted to neutral 0.5")
		return 0.5
	}
	return c
}

// coherenceFactor scores the internal consistency of the emotional
// annotation.
func (e *Engine) coherenceFactor(mem *schema.Memory, reasons *[]string) float64 {
	ec := mem.Emotional
	if ec == nil {
		*reasons = append(*reasons, "emotional context missing; coherence defaulted to neutral 0.5")
		return 0.5
	}

	score := 0.3
	if ec.PrimaryMood != "" {
		score += 0.3
	} else {
		*reasons = append(*reasons, "primary mood missing")
	}
	if ec.MoodIntensity >= 0 && ec.MoodIntensity <= 1 {
		score += 0.2
	} else {
		*reasons = append(*reasons, "mood intensity out of range")
	}
	if len(ec.SecondaryEmotions) > 0 && ec.PrimaryMood != "" {
		score += 0.1
	}
	if len(ec.Themes) > 0 {
		score += 0.1
	}
	return clamp01(score)
}

// relationshipFactor scores the completeness of the relationship assessment.
func (e *Engine) relationshipFactor(mem *schema.Memory, reasons *[]string) float64 {
	rd := mem.Relationship
	if rd == nil {
		*reasons = append(*reasons, "relationship dynamics missing; accuracy defaulted to neutral 0.5")
		return 0.5
	}

	score := 0.3
	if mem.InteractionQuality() != schema.QualityUnknown {
		score += 0.25
	}
	if len(rd.Participants) > 0 {
		score += 0.2
	} else {
		*reasons = append(*reasons, "no participants recorded")
	}
	if len(rd.CommunicationPatterns) > 0 {
		score += 0.15
	}
	if rd.RelationshipType != "" {
		score += 0.1
	}
	return clamp01(score)
}

// temporalFactor scores timestamp plausibility.
func (e *Engine) temporalFactor(mem *schema.Memory, reasons *[]string) float64 {
	if mem.Timestamp.IsZero() {
		*reasons = append(*reasons, "timestamp missing; temporal consistency defaulted to neutral 0.5")
		return 0.5
	}

	now := e.now()
	if mem.Timestamp.After(now.Add(24 * time.Hour)) {
		*reasons = append(*reasons, "timestamp is in the future")
		return 0.2
	}
	if mem.Timestamp.Before(now.AddDate(-10, 0, 0)) {
		*reasons = append(*reasons, "timestamp is more than ten years old")
		return 0.4
	}
	return 0.9
}

// contentFactor scores the presence and plausibility of the text content.
func (e *Engine) contentFactor(mem *schema.Memory, reasons *[]string) float64 {
	n := len(mem.Content)
	var score float64
	switch {
	case n == 0:
		*reasons = append(*reasons, "content is empty")
		score = 0.2
	case n < 20:
		*reasons = append(*reasons, "content is very short")
		score = 0.4
	case n > 10000:
		score = 0.6
	default:
		score = 0.8
	}
	if len(mem.Tags) > 0 {
		score += 0.1
	}
	return clamp01(score)
}

// decisionReason describes which zone the confidence fell into.
func decisionReason(d Decision, confidence float64, cfg ThresholdConfig) string {
	switch d {
	case DecisionAutoApprove:
		return fmt.Sprintf("confidence %.2f at or above approve threshold %.2f", confidence, cfg.AutoApprove)
	case DecisionAutoReject:
		return fmt.Sprintf("confidence %.2f at or below reject threshold %.2f", confidence, cfg.AutoReject)
	default:
		return fmt.Sprintf("confidence %.2f between thresholds %.2f and %.2f", confidence, cfg.AutoReject, cfg.AutoApprove)
	}
}

// suggestedActions returns reviewer hints for borderline results.
func suggestedActions(d Decision, f ConfidenceFactors) []string {
	if d != DecisionNeedsReview {
		return nil
	}
	var actions []string
	if f.EmotionalCoherence < 0.5 {
		actions = append(actions, "verify the emotional annotation against the source conversation")
	}
	if f.RelationshipAccuracy < 0.5 {
		actions = append(actions, "confirm participants and relationship assessment")
	}
	if f.TemporalConsistency < 0.5 {
		actions = append(actions, "check the event timestamp")
	}
	if f.ContentQuality < 0.5 {
		actions = append(actions, "review the extracted content for completeness")
	}
	return actions
}

func neutralFactors() ConfidenceFactors {
	return ConfidenceFactors{
		ExtractionConfidence: 0.5,
		EmotionalCoherence:   0.5,
		RelationshipAccuracy: 0.5,
		TemporalConsistency:  0.5,
		ContentQuality:       0.5,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
