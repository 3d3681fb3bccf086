package sampling

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fyrsmithlabs/validationd/internal/schema"
)

// EnsureRepresentativeCoverage analyzes how well a sample represents its
// population, reporting per-dimension coverage and the explicit gaps.
func (s *Sampler) EnsureRepresentativeCoverage(sample SampledMemories, population []*schema.Memory) CoverageAnalysis {
	var analysis CoverageAnalysis
	var gaps []string

	// Emotional coverage: distinct primary moods.
	sampleMoods := distinctValues(sample.Memories, moodValues)
	popMoods := distinctValues(population, moodValues)
	analysis.EmotionalCoverage = ratio(len(sampleMoods), len(popMoods))
	if missing := missingValues(popMoods, sampleMoods); len(missing) > 0 {
		gaps = append(gaps, fmt.Sprintf("underrepresented emotions: %s", strings.Join(missing, ", ")))
	}

	// Temporal coverage: sample span relative to population span.
	popSpan := span(population)
	sampleSpan := span(sample.Memories)
	if popSpan == 0 {
		analysis.TemporalCoverage = 1.0
	} else {
		analysis.TemporalCoverage = clamp01(float64(sampleSpan) / float64(popSpan))
	}
	if popSpan > 0 && sampleSpan < popSpan/2 {
		gaps = append(gaps, fmt.Sprintf(
			"temporal gap: sample spans %s of the population's %s", sampleSpan, popSpan))
	}

	// Participant coverage: distinct participants.
	sampleParts := distinctValues(sample.Memories, participantValues)
	popParts := distinctValues(population, participantValues)
	analysis.ParticipantCoverage = ratio(len(sampleParts), len(popParts))
	if missing := missingValues(popParts, sampleParts); len(missing) > 0 {
		gaps = append(gaps, fmt.Sprintf("missing participants: %s", strings.Join(missing, ", ")))
	}

	// Relationship-type coverage.
	sampleRels := distinctValues(sample.Memories, relationshipValues)
	popRels := distinctValues(population, relationshipValues)
	analysis.RelationshipCoverage = ratio(len(sampleRels), len(popRels))
	if missing := missingValues(popRels, sampleRels); len(missing) > 0 {
		gaps = append(gaps, fmt.Sprintf("missing relationship types: %s", strings.Join(missing, ", ")))
	}

	// Quality-tier coverage.
	sampleTiers := distinctValues(sample.Memories, tierValues)
	popTiers := distinctValues(population, tierValues)
	analysis.QualityTierCoverage = ratio(len(sampleTiers), len(popTiers))
	if missing := missingValues(popTiers, sampleTiers); len(missing) > 0 {
		gaps = append(gaps, fmt.Sprintf("missing quality tiers: %s", strings.Join(missing, ", ")))
	}

	analysis.Gaps = gaps
	analysis.OverallScore = (analysis.EmotionalCoverage +
		analysis.TemporalCoverage +
		analysis.ParticipantCoverage +
		analysis.RelationshipCoverage +
		analysis.QualityTierCoverage) / 5

	return analysis
}

// OptimizeValidationEfficiency chooses stratification axes and importance
// weights appropriate to the dataset's size and diversity, returning the
// plan's expected coverage and tier distribution before execution.
func (s *Sampler) OptimizeValidationEfficiency(dataset []*schema.Memory) SamplingStrategy {
	if len(dataset) == 0 {
		return SamplingStrategy{
			Name:                     "uniform",
			StratifyBy:               []string{"quality-tier"},
			ImportanceWeights:        map[string]float64{"quality-tier": 1.0},
			ExpectedTierDistribution: map[QualityTier]float64{},
		}
	}

	weights := map[string]float64{"quality-tier": 1.0}

	moods := distinctValues(dataset, moodValues)
	if len(moods) >= 4 {
		weights["emotion"] = 1.5
	}
	if span(dataset) >= 90*24*time.Hour {
		weights["time-period"] = 1.0
	}
	parts := distinctValues(dataset, participantValues)
	if len(parts) >= 8 {
		weights["participant"] = 1.0
	}

	// Normalize importance weights to sum to 1.0.
	total := 0.0
	for _, w := range weights {
		total += w
	}
	axes := make([]string, 0, len(weights))
	for axis := range weights {
		axes = append(axes, axis)
		weights[axis] /= total
	}
	sort.Strings(axes)

	name := "quality-stratified"
	if len(axes) > 1 {
		name = "multi-axis-stratified"
	}

	// Expected tier shares mirror the population's own distribution;
	// stratified selection preserves them.
	tierCounts := map[QualityTier]int{}
	for _, mem := range dataset {
		tierCounts[TierOf(mem)]++
	}
	tierDist := make(map[QualityTier]float64, len(tierCounts))
	for tier, count := range tierCounts {
		tierDist[tier] = float64(count) / float64(len(dataset))
	}

	return SamplingStrategy{
		Name:                     name,
		StratifyBy:               axes,
		ImportanceWeights:        weights,
		ExpectedCoverage:         expectedCoverage(len(dataset), len(axes)),
		ExpectedTierDistribution: tierDist,
	}
}

// expectedCoverage is a heuristic: more stratification axes raise expected
// coverage, diminishing with dataset size.
func expectedCoverage(populationSize, axes int) float64 {
	base := 0.6 + 0.08*float64(axes)
	if populationSize > 1000 {
		base -= 0.05
	}
	return clamp01(base)
}

func moodValues(mem *schema.Memory) []string {
	if mood := primaryMood(mem); mood != "" {
		return []string{mood}
	}
	return nil
}

func participantValues(mem *schema.Memory) []string {
	out := make([]string, 0, len(mem.Participants()))
	for _, p := range mem.Participants() {
		out = append(out, strings.ToLower(p))
	}
	return out
}

func relationshipValues(mem *schema.Memory) []string {
	if mem.Relationship == nil || mem.Relationship.RelationshipType == "" {
		return nil
	}
	return []string{strings.ToLower(mem.Relationship.RelationshipType)}
}

func tierValues(mem *schema.Memory) []string {
	return []string{string(TierOf(mem))}
}

// distinctValues collects the distinct values of an extractor over a set.
func distinctValues(mems []*schema.Memory, values func(*schema.Memory) []string) map[string]bool {
	out := make(map[string]bool)
	for _, mem := range mems {
		for _, v := range values(mem) {
			out[v] = true
		}
	}
	return out
}

// missingValues returns the values in population absent from sample, sorted
// for deterministic gap messages.
func missingValues(population, sample map[string]bool) []string {
	var missing []string
	for v := range population {
		if !sample[v] {
			missing = append(missing, v)
		}
	}
	sort.Strings(missing)
	return missing
}

func ratio(sample, population int) float64 {
	if population == 0 {
		return 1.0
	}
	return float64(sample) / float64(population)
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
