package sampling

import (
	"errors"
	"time"

	"github.com/fyrsmithlabs/validationd/internal/schema"
)

// Common errors for sampling operations.
var (
	ErrEmptyPopulation = errors.New("population cannot be empty")
)

// QualityTier buckets memories by extraction confidence.
type QualityTier string

const (
	TierHigh   QualityTier = "high"   // extraction confidence >= 0.8
	TierMedium QualityTier = "medium" // 0.5 <= confidence < 0.8
	TierLow    QualityTier = "low"    // confidence < 0.5
)

// TierOf returns the quality tier for a memory.
func TierOf(mem *schema.Memory) QualityTier {
	switch {
	case mem.ExtractionConfidence >= 0.8:
		return TierHigh
	case mem.ExtractionConfidence >= 0.5:
		return TierMedium
	default:
		return TierLow
	}
}

// CoverageRequirements states the diversity quotas a sample must satisfy.
type CoverageRequirements struct {
	// SampleSize is the target sample size. Zero means 10% of the
	// population, minimum one.
	SampleSize int `json:"sample_size,omitempty"`

	// MinEmotionalDiversity is the minimum number of distinct primary moods
	// the sample should contain, bounded by what the population offers.
	MinEmotionalDiversity int `json:"min_emotional_diversity,omitempty"`

	// MinTemporalSpan is the minimum time range the sample should cover.
	MinTemporalSpan time.Duration `json:"min_temporal_span,omitempty"`

	// MinParticipantCoverage is the minimum number of distinct participants
	// the sample should include.
	MinParticipantCoverage int `json:"min_participant_coverage,omitempty"`

	// RequiredRelationshipTypes must each appear in the sample when the
	// population contains them.
	RequiredRelationshipTypes []string `json:"required_relationship_types,omitempty"`

	// QualityTierQuotas sets a minimum count per quality tier.
	QualityTierQuotas map[QualityTier]int `json:"quality_tier_quotas,omitempty"`

	// Seed makes the random fill reproducible. Zero seeds from entropy.
	Seed int64 `json:"seed,omitempty"`
}

// SampledMemories is a coverage-constrained sample of a population.
type SampledMemories struct {
	Memories       []*schema.Memory `json:"memories"`
	PopulationSize int              `json:"population_size"`
	SampleSize     int              `json:"sample_size"`
	SamplingRate   float64          `json:"sampling_rate"`
	Strategy       string           `json:"strategy"`

	// Seed is the seed actually used; reusing it reproduces the sample.
	Seed int64 `json:"seed"`
}

// CoverageAnalysis reports how well a sample represents its population.
type CoverageAnalysis struct {
	// Per-dimension coverage percentages in [0,1].
	EmotionalCoverage    float64 `json:"emotional_coverage"`
	TemporalCoverage     float64 `json:"temporal_coverage"`
	ParticipantCoverage  float64 `json:"participant_coverage"`
	RelationshipCoverage float64 `json:"relationship_coverage"`
	QualityTierCoverage  float64 `json:"quality_tier_coverage"`

	// Gaps name the concrete misses: underrepresented emotions, temporal
	// gaps, missing participants.
	Gaps []string `json:"gaps,omitempty"`

	// OverallScore is the mean of the dimension coverages, in [0,1].
	OverallScore float64 `json:"overall_score"`
}

// SamplingStrategy describes a stratification plan for a dataset before it
// is executed.
type SamplingStrategy struct {
	// Name identifies the plan.
	Name string `json:"name"`

	// StratifyBy lists the chosen stratification axes.
	StratifyBy []string `json:"stratify_by"`

	// ImportanceWeights weight each axis; they sum to 1.0.
	ImportanceWeights map[string]float64 `json:"importance_weights"`

	// ExpectedCoverage estimates the overall coverage the plan achieves.
	ExpectedCoverage float64 `json:"expected_coverage"`

	// ExpectedTierDistribution estimates the sample's quality-tier shares.
	ExpectedTierDistribution map[QualityTier]float64 `json:"expected_tier_distribution"`
}
