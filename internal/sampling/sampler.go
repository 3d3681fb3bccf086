// Package sampling selects coverage-constrained subsets of large
// needs-review populations when full review is infeasible.
package sampling

import (
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/validationd/internal/schema"
)

// defaultSamplingRate is used when no sample size is requested.
const defaultSamplingRate = 0.1

// Sampler selects representative subsets of memory populations.
type Sampler struct {
	logger *zap.Logger
}

// NewSampler creates a sampler.
func NewSampler(logger *zap.Logger) *Sampler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sampler{logger: logger}
}

// SampleForValidation selects a subset of the population satisfying the
// stated diversity quotas.
//
// Quota passes run in a fixed order (relationship types, quality tiers,
// emotional diversity, participant coverage, temporal span) and the
// remaining capacity is filled randomly. The same population, requirements,
// and seed always reproduce the same sample.
func (s *Sampler) SampleForValidation(population []*schema.Memory, reqs CoverageRequirements) (SampledMemories, error) {
	if len(population) == 0 {
		return SampledMemories{}, ErrEmptyPopulation
	}

	target := reqs.SampleSize
	if target <= 0 {
		target = int(float64(len(population)) * defaultSamplingRate)
		if target < 1 {
			target = 1
		}
	}
	if target > len(population) {
		target = len(population)
	}

	seed := reqs.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	picker := newPicker(population, target)
	picker.coverRelationshipTypes(reqs.RequiredRelationshipTypes)
	picker.coverQualityTiers(reqs.QualityTierQuotas)
	picker.coverEmotions(reqs.MinEmotionalDiversity)
	picker.coverParticipants(reqs.MinParticipantCoverage)
	picker.coverTemporalSpan(reqs.MinTemporalSpan)
	picker.fillRandom(rng)

	sample := picker.selected()
	result := SampledMemories{
		Memories:       sample,
		PopulationSize: len(population),
		SampleSize:     len(sample),
		SamplingRate:   float64(len(sample)) / float64(len(population)),
		Strategy:       "coverage-quota",
		Seed:           seed,
	}

	s.logger.Debug("sample selected",
		zap.Int("population", result.PopulationSize),
		zap.Int("sample", result.SampleSize),
		zap.Float64("rate", result.SamplingRate),
		zap.Int64("seed", seed))

	return result, nil
}

// picker tracks quota-driven selection over a population.
type picker struct {
	population []*schema.Memory
	target     int
	chosen     map[int]bool
	order      []int
}

func newPicker(population []*schema.Memory, target int) *picker {
	return &picker{
		population: population,
		target:     target,
		chosen:     make(map[int]bool, target),
	}
}

func (p *picker) full() bool { return len(p.order) >= p.target }

func (p *picker) pick(i int) {
	if p.chosen[i] || p.full() {
		return
	}
	p.chosen[i] = true
	p.order = append(p.order, i)
}

// coverRelationshipTypes picks one memory per required relationship type.
func (p *picker) coverRelationshipTypes(required []string) {
	for _, rt := range required {
		if p.full() {
			return
		}
		for i, mem := range p.population {
			if p.chosen[i] || mem.Relationship == nil {
				continue
			}
			if strings.EqualFold(mem.Relationship.RelationshipType, rt) {
				p.pick(i)
				break
			}
		}
	}
}

// coverQualityTiers satisfies per-tier minimum counts, preferring the
// highest extraction confidence within each tier.
func (p *picker) coverQualityTiers(quotas map[QualityTier]int) {
	for _, tier := range []QualityTier{TierHigh, TierMedium, TierLow} {
		need := quotas[tier]
		if need == 0 {
			continue
		}
		for i, mem := range p.population {
			if need == 0 || p.full() {
				break
			}
			if p.chosen[i] || TierOf(mem) != tier {
				continue
			}
			p.pick(i)
			need--
		}
	}
}

// coverEmotions picks memories introducing new primary moods until the
// diversity minimum is met.
func (p *picker) coverEmotions(minDistinct int) {
	if minDistinct == 0 {
		return
	}
	seen := make(map[string]bool)
	for _, i := range p.order {
		if mood := primaryMood(p.population[i]); mood != "" {
			seen[mood] = true
		}
	}
	for i, mem := range p.population {
		if len(seen) >= minDistinct || p.full() {
			return
		}
		mood := primaryMood(mem)
		if mood == "" || seen[mood] || p.chosen[i] {
			continue
		}
		p.pick(i)
		seen[mood] = true
	}
}

// coverParticipants picks memories introducing new participants until the
// coverage minimum is met.
func (p *picker) coverParticipants(minDistinct int) {
	if minDistinct == 0 {
		return
	}
	seen := make(map[string]bool)
	for _, i := range p.order {
		for _, name := range p.population[i].Participants() {
			seen[strings.ToLower(name)] = true
		}
	}
	for i, mem := range p.population {
		if len(seen) >= minDistinct || p.full() {
			return
		}
		if p.chosen[i] {
			continue
		}
		added := false
		for _, name := range mem.Participants() {
			if !seen[strings.ToLower(name)] {
				added = true
			}
		}
		if !added {
			continue
		}
		p.pick(i)
		for _, name := range mem.Participants() {
			seen[strings.ToLower(name)] = true
		}
	}
}

// coverTemporalSpan anchors the sample with the oldest and newest records
// when the currently selected span is too narrow.
func (p *picker) coverTemporalSpan(minSpan time.Duration) {
	if minSpan == 0 || p.full() {
		return
	}

	oldestIdx, newestIdx := -1, -1
	for i, mem := range p.population {
		if mem.Timestamp.IsZero() {
			continue
		}
		if oldestIdx == -1 || mem.Timestamp.Before(p.population[oldestIdx].Timestamp) {
			oldestIdx = i
		}
		if newestIdx == -1 || mem.Timestamp.After(p.population[newestIdx].Timestamp) {
			newestIdx = i
		}
	}
	if oldestIdx == -1 {
		return
	}
	if span(p.selected()) < minSpan {
		p.pick(oldestIdx)
		p.pick(newestIdx)
	}
}

// fillRandom fills the remaining capacity uniformly at random.
func (p *picker) fillRandom(rng *rand.Rand) {
	remaining := make([]int, 0, len(p.population))
	for i := range p.population {
		if !p.chosen[i] {
			remaining = append(remaining, i)
		}
	}
	rng.Shuffle(len(remaining), func(a, b int) {
		remaining[a], remaining[b] = remaining[b], remaining[a]
	})
	for _, i := range remaining {
		if p.full() {
			break
		}
		p.pick(i)
	}
}

func (p *picker) selected() []*schema.Memory {
	out := make([]*schema.Memory, 0, len(p.order))
	for _, i := range p.order {
		out = append(out, p.population[i])
	}
	return out
}

func primaryMood(mem *schema.Memory) string {
	if mem.Emotional == nil {
		return ""
	}
	return strings.ToLower(mem.Emotional.PrimaryMood)
}

// span is the time range covered by memories with known timestamps.
func span(mems []*schema.Memory) time.Duration {
	var oldest, newest time.Time
	for _, mem := range mems {
		if mem.Timestamp.IsZero() {
			continue
		}
		if oldest.IsZero() || mem.Timestamp.Before(oldest) {
			oldest = mem.Timestamp
		}
		if newest.IsZero() || mem.Timestamp.After(newest) {
			newest = mem.Timestamp
		}
	}
	if oldest.IsZero() {
		return 0
	}
	return newest.Sub(oldest)
}
