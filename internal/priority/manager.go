// Package priority builds ordered, annotated review queues from significance
// scores and optimizes them under time and expertise constraints.
package priority

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxRelatedMemories caps the related-memory annotation per item.
const maxRelatedMemories = 5

// Manager builds and optimizes review queues.
type Manager struct {
	logger *zap.Logger
}

// NewManager creates a priority manager.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{logger: logger}
}

// CreatePrioritizedList orders memories by descending significance, assigns
// contiguous ranks starting at 1, and derives per-item review context.
func (m *Manager) CreatePrioritizedList(scored []ScoredMemory) PrioritizedList {
	items := make([]PrioritizedMemory, 0, len(scored))
	for _, s := range scored {
		items = append(items, PrioritizedMemory{ScoredMemory: s})
	}

	sort.SliceStable(items, func(i, j int) bool {
		si, sj := items[i].Significance.Overall, items[j].Significance.Overall
		if si != sj {
			return si > sj
		}
		// Tie-break on ID for deterministic ordering.
		return memoryID(items[i]) < memoryID(items[j])
	})

	var dist Distribution
	for i := range items {
		items[i].PriorityRank = i + 1
		items[i].Context = m.reviewContext(items[i], items)

		switch bucket(items[i].Significance.Overall) {
		case "high":
			dist.High++
		case "medium":
			dist.Medium++
		default:
			dist.Low++
		}
	}

	m.logger.Debug("prioritized list created",
		zap.Int("items", len(items)),
		zap.Int("high", dist.High),
		zap.Int("medium", dist.Medium),
		zap.Int("low", dist.Low))

	return PrioritizedList{Items: items, Distribution: dist}
}

// OptimizeReviewQueue selects a strategy for the queue under the given
// resources and applies it.
func (m *Manager) OptimizeReviewQueue(queue PrioritizedList, alloc ResourceAllocation) (OptimizedQueue, error) {
	perItem, err := alloc.ValidatorExpertise.MinutesPerItem()
	if err != nil {
		return OptimizedQueue{}, err
	}
	if alloc.AvailableTime <= 0 {
		return OptimizedQueue{}, ErrNoAvailableTime
	}

	capacity := int(alloc.AvailableTime / perItem)
	strategy := chooseStrategy(queue, capacity)
	selected := strategy.Select(queue.Items, capacity)

	out := OptimizedQueue{
		Items: selected,
		Strategy: StrategyReport{
			Name:       strategy.Name(),
			Parameters: strategy.Parameters(capacity),
			Expected: ExpectedOutcomes{
				EstimatedTime:   time.Duration(len(selected)) * perItem,
				ExpectedQuality: expectedQuality(alloc.ValidatorExpertise, len(selected), len(queue.Items)),
				Coverage:        coverage(selected, queue.Items),
			},
		},
	}

	m.logger.Info("review queue optimized",
		zap.String("strategy", strategy.Name()),
		zap.Int("queue_size", len(queue.Items)),
		zap.Int("selected", len(selected)),
		zap.Duration("estimated_time", out.Strategy.Expected.EstimatedTime))

	return out, nil
}

// reviewContext derives the reviewer annotation for one queued memory.
func (m *Manager) reviewContext(item PrioritizedMemory, all []PrioritizedMemory) ReviewContext {
	dominant := item.Significance.Factors.Dominant()
	if len(dominant) > 2 {
		dominant = dominant[:2]
	}

	reason := item.Significance.Narrative
	if reason == "" {
		reason = fmt.Sprintf("significance %.2f", item.Significance.Overall)
	}

	return ReviewContext{
		ReviewReason:     reason,
		FocusAreas:       dominant,
		RelatedMemoryIDs: relatedMemories(item, all),
		ValidationHints:  validationHints(dominant),
	}
}

// relatedMemories finds queued memories sharing a participant with item.
func relatedMemories(item PrioritizedMemory, all []PrioritizedMemory) []string {
	if item.Memory == nil {
		return nil
	}
	own := make(map[string]bool)
	for _, p := range item.Memory.Participants() {
		own[strings.ToLower(p)] = true
	}
	if len(own) == 0 {
		return nil
	}

	var related []string
	for _, other := range all {
		if other.Memory == nil || other.Memory.ID == item.Memory.ID {
			continue
		}
		for _, p := range other.Memory.Participants() {
			if own[strings.ToLower(p)] {
				related = append(related, other.Memory.ID)
				break
			}
		}
		if len(related) == maxRelatedMemories {
			break
		}
	}
	return related
}

// validationHints maps dominant factors to concrete reviewer checks.
func validationHints(dominant []string) []string {
	var hints []string
	for _, d := range dominant {
		switch d {
		case "emotional intensity":
			hints = append(hints, "confirm the mood intensity matches the conversation tone")
		case "relationship impact":
			hints = append(hints, "verify participants and the interaction quality assessment")
		case "life-event significance":
			hints = append(hints, "confirm the life event actually occurred as described")
		case "participant vulnerability":
			hints = append(hints, "handle with care; a vulnerable participant may be involved")
		case "temporal importance":
			hints = append(hints, "check the event date against nearby significant dates")
		}
	}
	return hints
}

// expectedQuality is a heuristic review-quality estimate by expertise,
// reduced slightly when a large share of the queue is cut.
func expectedQuality(e Expertise, selected, total int) float64 {
	var base float64
	switch e {
	case ExpertiseExpert:
		base = 0.9
	case ExpertiseIntermediate:
		base = 0.75
	default:
		base = 0.6
	}
	if total > 0 && selected*2 < total {
		base -= 0.05
	}
	return base
}

// coverage computes how representative the selection is of the full queue.
func coverage(selected, all []PrioritizedMemory) CoverageMetrics {
	return CoverageMetrics{
		EmotionalRange:       fractionCovered(selected, all, primaryMoods),
		TemporalSpan:         temporalSpan(selected),
		ParticipantDiversity: fractionCovered(selected, all, participants),
	}
}

func primaryMoods(item PrioritizedMemory) []string {
	if item.Memory == nil || item.Memory.Emotional == nil || item.Memory.Emotional.PrimaryMood == "" {
		return nil
	}
	return []string{strings.ToLower(item.Memory.Emotional.PrimaryMood)}
}

func participants(item PrioritizedMemory) []string {
	if item.Memory == nil {
		return nil
	}
	out := make([]string, 0, len(item.Memory.Participants()))
	for _, p := range item.Memory.Participants() {
		out = append(out, strings.ToLower(p))
	}
	return out
}

// fractionCovered returns |values(selected)| / |values(all)| for a value
// extractor, or 1.0 when the full queue has no values at all.
func fractionCovered(selected, all []PrioritizedMemory, values func(PrioritizedMemory) []string) float64 {
	total := make(map[string]bool)
	for _, item := range all {
		for _, v := range values(item) {
			total[v] = true
		}
	}
	if len(total) == 0 {
		return 1.0
	}

	covered := make(map[string]bool)
	for _, item := range selected {
		for _, v := range values(item) {
			covered[v] = true
		}
	}
	return float64(len(covered)) / float64(len(total))
}

// temporalSpan is the time range between the oldest and newest selected
// memories with a known timestamp.
func temporalSpan(selected []PrioritizedMemory) time.Duration {
	var oldest, newest time.Time
	for _, item := range selected {
		if item.Memory == nil || item.Memory.Timestamp.IsZero() {
			continue
		}
		ts := item.Memory.Timestamp
		if oldest.IsZero() || ts.Before(oldest) {
			oldest = ts
		}
		if newest.IsZero() || ts.After(newest) {
			newest = ts
		}
	}
	if oldest.IsZero() {
		return 0
	}
	return newest.Sub(oldest)
}

func memoryID(item PrioritizedMemory) string {
	if item.Memory == nil {
		return ""
	}
	return item.Memory.ID
}
