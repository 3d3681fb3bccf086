package priority

import (
	"errors"
	"time"

	"github.com/fyrsmithlabs/validationd/internal/schema"
	"github.com/fyrsmithlabs/validationd/internal/significance"
)

// Common errors for queue operations.
var (
	ErrNoAvailableTime  = errors.New("available time must be greater than zero")
	ErrUnknownExpertise = errors.New("unknown validator expertise level")
)

// Expertise is the reviewing validator's skill level. It determines the
// per-item review time estimate.
type Expertise string

const (
	ExpertiseExpert       Expertise = "expert"
	ExpertiseIntermediate Expertise = "intermediate"
	ExpertiseBeginner     Expertise = "beginner"
)

// MinutesPerItem returns the estimated review minutes per memory for this
// expertise level (expert 3, intermediate 5, beginner 8).
func (e Expertise) MinutesPerItem() (time.Duration, error) {
	switch e {
	case ExpertiseExpert:
		return 3 * time.Minute, nil
	case ExpertiseIntermediate:
		return 5 * time.Minute, nil
	case ExpertiseBeginner:
		return 8 * time.Minute, nil
	}
	return 0, ErrUnknownExpertise
}

// ScoredMemory pairs a memory with its significance score. It is the shape
// the significance weighter hands to the priority manager.
type ScoredMemory struct {
	Memory       *schema.Memory     `json:"memory"`
	Significance significance.Score `json:"significance"`
}

// ReviewContext annotates a queued memory for the human reviewer.
type ReviewContext struct {
	// ReviewReason explains why this memory needs review.
	ReviewReason string `json:"review_reason"`

	// FocusAreas name the significance factors the reviewer should
	// concentrate on.
	FocusAreas []string `json:"focus_areas"`

	// RelatedMemoryIDs lists queued memories sharing a participant.
	RelatedMemoryIDs []string `json:"related_memory_ids,omitempty"`

	// ValidationHints are concrete checks suggested to the reviewer.
	ValidationHints []string `json:"validation_hints,omitempty"`
}

// PrioritizedMemory is a scored memory with its queue position and review
// annotation.
type PrioritizedMemory struct {
	ScoredMemory

	// PriorityRank is the 1-based queue position; rank 1 is reviewed first.
	// Ranks across a list form a permutation of 1..N.
	PriorityRank int `json:"priority_rank"`

	// Context is the reviewer annotation.
	Context ReviewContext `json:"review_context"`
}

// Distribution summarizes a queue by significance bucket
// (high >= 0.7, medium 0.4-0.7, low < 0.4).
type Distribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// PrioritizedList is an ordered review queue with its bucket summary.
type PrioritizedList struct {
	Items        []PrioritizedMemory `json:"items"`
	Distribution Distribution        `json:"significance_distribution"`
}

// ResourceAllocation states the review resources available for a queue.
type ResourceAllocation struct {
	// AvailableTime is the total review time budget.
	AvailableTime time.Duration `json:"available_time"`

	// TargetDate is when review should be completed.
	TargetDate time.Time `json:"target_date,omitempty"`

	// ValidatorExpertise sets the per-item time estimate.
	ValidatorExpertise Expertise `json:"validator_expertise"`
}

// CoverageMetrics report how representative a selection is of the full queue.
type CoverageMetrics struct {
	// EmotionalRange is the fraction of the queue's distinct primary moods
	// present in the selection.
	EmotionalRange float64 `json:"emotional_range"`

	// TemporalSpan is the time range covered by the selection.
	TemporalSpan time.Duration `json:"temporal_span"`

	// ParticipantDiversity is the fraction of the queue's distinct
	// participants present in the selection.
	ParticipantDiversity float64 `json:"participant_diversity"`
}

// ExpectedOutcomes estimate the result of reviewing an optimized queue, so a
// caller can judge whether the constrained schedule is acceptable.
type ExpectedOutcomes struct {
	EstimatedTime   time.Duration   `json:"estimated_time"`
	ExpectedQuality float64         `json:"expected_quality"`
	Coverage        CoverageMetrics `json:"coverage"`
}

// StrategyReport describes the chosen optimization strategy.
type StrategyReport struct {
	Name       string            `json:"name"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Expected   ExpectedOutcomes  `json:"expected_outcomes"`
}

// OptimizedQueue is the output of queue optimization: the selected items in
// review order plus the strategy report.
type OptimizedQueue struct {
	Items    []PrioritizedMemory `json:"items"`
	Strategy StrategyReport      `json:"strategy"`
}

// bucket returns which distribution bucket a score falls into.
func bucket(overall float64) string {
	switch {
	case overall >= significance.HighThreshold:
		return "high"
	case overall >= significance.MediumThreshold:
		return "medium"
	default:
		return "low"
	}
}
