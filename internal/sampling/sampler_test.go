package sampling

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/validationd/internal/schema"
)

var sampleBase = time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)

func memoryWith(id, mood, relType string, confidence float64, participants []string, daysAgo int) *schema.Memory {
	return &schema.Memory{
		ID:                   id,
		Content:              "content for " + id,
		ExtractionConfidence: confidence,
		Emotional: &schema.EmotionalContext{
			PrimaryMood:   mood,
			MoodIntensity: 0.5,
		},
		Relationship: &schema.RelationshipDynamics{
			InteractionQuality: schema.QualityNeutral,
			Participants:       participants,
			RelationshipType:   relType,
		},
		Timestamp: sampleBase.AddDate(0, 0, -daysAgo),
	}
}

// testPopulation is 40 memories across 4 moods, 2 relationship types, 8
// participants, 40 days, and all three quality tiers.
func testPopulation() []*schema.Memory {
	moods := []string{"joyful", "anxious", "sad", "calm"}
	relTypes := []string{"family", "friend"}
	confidences := []float64{0.9, 0.6, 0.3}

	out := make([]*schema.Memory, 0, 40)
	for i := 0; i < 40; i++ {
		out = append(out, memoryWith(
			fmt.Sprintf("mem-%02d", i),
			moods[i%len(moods)],
			relTypes[i%len(relTypes)],
			confidences[i%len(confidences)],
			[]string{fmt.Sprintf("person-%d", i%8)},
			i,
		))
	}
	return out
}

func TestSampleForValidation_EmptyPopulation(t *testing.T) {
	s := NewSampler(nil)

	_, err := s.SampleForValidation(nil, CoverageRequirements{})
	assert.ErrorIs(t, err, ErrEmptyPopulation)
}

func TestSampleForValidation_DefaultSizeIsTenPercent(t *testing.T) {
	s := NewSampler(nil)
	pop := testPopulation()

	sample, err := s.SampleForValidation(pop, CoverageRequirements{Seed: 1})
	require.NoError(t, err)

	assert.Equal(t, 4, sample.SampleSize)
	assert.Len(t, sample.Memories, 4)
	assert.Equal(t, 40, sample.PopulationSize)
	assert.InDelta(t, 0.1, sample.SamplingRate, 1e-9)
	assert.Equal(t, "coverage-quota", sample.Strategy)
	assert.Equal(t, int64(1), sample.Seed)
}

func TestSampleForValidation_MinimumOneForTinyPopulations(t *testing.T) {
	s := NewSampler(nil)
	pop := testPopulation()[:3]

	sample, err := s.SampleForValidation(pop, CoverageRequirements{Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, sample.SampleSize)
}

func TestSampleForValidation_TargetCappedAtPopulation(t *testing.T) {
	s := NewSampler(nil)
	pop := testPopulation()[:5]

	sample, err := s.SampleForValidation(pop, CoverageRequirements{SampleSize: 50, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, sample.SampleSize)
}

func TestSampleForValidation_SameSeedReproducesSample(t *testing.T) {
	s := NewSampler(nil)
	pop := testPopulation()
	reqs := CoverageRequirements{SampleSize: 10, MinEmotionalDiversity: 3, Seed: 42}

	first, err := s.SampleForValidation(pop, reqs)
	require.NoError(t, err)
	second, err := s.SampleForValidation(pop, reqs)
	require.NoError(t, err)

	require.Equal(t, first.SampleSize, second.SampleSize)
	for i := range first.Memories {
		assert.Equal(t, first.Memories[i].ID, second.Memories[i].ID)
	}
}

func TestSampleForValidation_ZeroSeedIsReplaced(t *testing.T) {
	s := NewSampler(nil)

	sample, err := s.SampleForValidation(testPopulation(), CoverageRequirements{})
	require.NoError(t, err)
	assert.NotZero(t, sample.Seed)
}

func TestSampleForValidation_RequiredRelationshipTypes(t *testing.T) {
	s := NewSampler(nil)
	pop := testPopulation()

	sample, err := s.SampleForValidation(pop, CoverageRequirements{
		SampleSize:                4,
		RequiredRelationshipTypes: []string{"family", "friend"},
		Seed:                      7,
	})
	require.NoError(t, err)

	types := make(map[string]bool)
	for _, mem := range sample.Memories {
		types[mem.Relationship.RelationshipType] = true
	}
	assert.True(t, types["family"])
	assert.True(t, types["friend"])
}

func TestSampleForValidation_EmotionalDiversityQuota(t *testing.T) {
	s := NewSampler(nil)
	pop := testPopulation()

	sample, err := s.SampleForValidation(pop, CoverageRequirements{
		SampleSize:            6,
		MinEmotionalDiversity: 4,
		Seed:                  7,
	})
	require.NoError(t, err)

	moods := make(map[string]bool)
	for _, mem := range sample.Memories {
		moods[mem.Emotional.PrimaryMood] = true
	}
	assert.GreaterOrEqual(t, len(moods), 4)
}

func TestSampleForValidation_QualityTierQuotas(t *testing.T) {
	s := NewSampler(nil)
	pop := testPopulation()

	sample, err := s.SampleForValidation(pop, CoverageRequirements{
		SampleSize: 6,
		QualityTierQuotas: map[QualityTier]int{
			TierHigh:   2,
			TierMedium: 2,
			TierLow:    2,
		},
		Seed: 7,
	})
	require.NoError(t, err)

	tiers := make(map[QualityTier]int)
	for _, mem := range sample.Memories {
		tiers[TierOf(mem)]++
	}
	assert.GreaterOrEqual(t, tiers[TierHigh], 2)
	assert.GreaterOrEqual(t, tiers[TierMedium], 2)
	assert.GreaterOrEqual(t, tiers[TierLow], 2)
}

func TestSampleForValidation_TemporalSpanAnchorsExtremes(t *testing.T) {
	s := NewSampler(nil)
	pop := testPopulation()

	sample, err := s.SampleForValidation(pop, CoverageRequirements{
		SampleSize:      5,
		MinTemporalSpan: 30 * 24 * time.Hour,
		Seed:            7,
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, span(sample.Memories), 30*24*time.Hour)
}

func TestSampleForValidation_ParticipantCoverageQuota(t *testing.T) {
	s := NewSampler(nil)
	pop := testPopulation()

	sample, err := s.SampleForValidation(pop, CoverageRequirements{
		SampleSize:             8,
		MinParticipantCoverage: 6,
		Seed:                   7,
	})
	require.NoError(t, err)

	parts := make(map[string]bool)
	for _, mem := range sample.Memories {
		for _, p := range mem.Participants() {
			parts[p] = true
		}
	}
	assert.GreaterOrEqual(t, len(parts), 6)
}

func TestSampleForValidation_NoDuplicates(t *testing.T) {
	s := NewSampler(nil)
	pop := testPopulation()

	sample, err := s.SampleForValidation(pop, CoverageRequirements{
		SampleSize:                12,
		MinEmotionalDiversity:     4,
		MinParticipantCoverage:    6,
		RequiredRelationshipTypes: []string{"family", "friend"},
		QualityTierQuotas:         map[QualityTier]int{TierHigh: 2, TierLow: 1},
		Seed:                      99,
	})
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, mem := range sample.Memories {
		assert.False(t, seen[mem.ID], "duplicate %s", mem.ID)
		seen[mem.ID] = true
	}
	assert.Len(t, sample.Memories, 12)
}

func TestTierOf(t *testing.T) {
	assert.Equal(t, TierHigh, TierOf(&schema.Memory{ExtractionConfidence: 0.8}))
	assert.Equal(t, TierMedium, TierOf(&schema.Memory{ExtractionConfidence: 0.79}))
	assert.Equal(t, TierMedium, TierOf(&schema.Memory{ExtractionConfidence: 0.5}))
	assert.Equal(t, TierLow, TierOf(&schema.Memory{ExtractionConfidence: 0.49}))
}
