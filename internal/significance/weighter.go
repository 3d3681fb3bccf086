// Package significance scores the emotional and contextual importance of
// memory records, independent of extraction trustworthiness.
//
// The overall score is a fixed-weight combination of five factors: emotional
// intensity (30%), relationship impact (25%), life-event significance (20%),
// participant vulnerability (15%), and temporal importance (10%). Scoring is
// deterministic for a fixed reference time and never fails a record: internal
// errors fall back to a low default score with an explanatory narrative.
package significance

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/validationd/internal/schema"
)

// fallbackOverall is the low default score used when significance cannot be
// computed for a record.
const fallbackOverall = 0.2

// Weighter computes significance scores for memory records.
type Weighter struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewWeighter creates a significance weighter.
func NewWeighter(logger *zap.Logger) *Weighter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Weighter{
		logger: logger,
		now:    time.Now,
	}
}

// CalculateSignificance scores a single memory.
//
// A nil or invalid record yields the fallback score rather than an error:
// significance scoring must never halt a batch. Panics from factor
// computation are recovered the same way.
func (w *Weighter) CalculateSignificance(mem *schema.Memory) (score Score) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("significance computation panicked, using fallback",
				zap.Any("panic", r),
				zap.Stack("stack"))
			score = fallbackScore("significance computation failed; assigned low default score")
		}
	}()

	if mem == nil {
		return fallbackScore("no memory record provided; assigned low default score")
	}
	if err := mem.Validate(); err != nil {
		return fallbackScore(fmt.Sprintf("invalid memory record (%v); assigned low default score", err))
	}

	factors := Factors{
		Intensity:          w.intensityFactor(mem),
		RelationshipImpact: w.relationshipFactor(mem),
		LifeEvent:          w.lifeEventFactor(mem),
		Vulnerability:      w.vulnerabilityFactor(mem),
		Temporal:           w.temporalFactor(mem),
	}

	overall := clamp01(factors.Combine())
	return Score{
		Overall:   overall,
		Factors:   factors,
		Narrative: buildNarrative(overall, factors),
	}
}

// intensityFactor scores emotional intensity from mood strength,
// secondary-emotion breadth, and significant theme presence.
func (w *Weighter) intensityFactor(mem *schema.Memory) float64 {
	base, _ := mem.MoodIntensity()
	score := base

	if mem.Emotional != nil {
		// Breadth of secondary emotions, capped at four.
		n := len(mem.Emotional.SecondaryEmotions)
		if n > 4 {
			n = 4
		}
		score += 0.05 * float64(n)

		for _, theme := range mem.Emotional.Themes {
			if significantThemes[strings.ToLower(theme)] {
				score += 0.15
				break
			}
		}
	}

	return clamp01(score)
}

// relationshipFactor scores relationship impact from interaction quality,
// notable communication patterns, and group size.
func (w *Weighter) relationshipFactor(mem *schema.Memory) float64 {
	var score float64
	switch mem.InteractionQuality() {
	case schema.QualityPositive:
		score = 0.65
	case schema.QualityNegative:
		// Conflictual interactions carry high relationship impact.
		score = 0.7
	case schema.QualityNeutral:
		score = 0.35
	default:
		score = 0.5
	}

	if mem.Relationship != nil {
		notable := 0
		for _, p := range mem.Relationship.CommunicationPatterns {
			if notablePatterns[strings.ToLower(p)] {
				notable++
			}
		}
		if notable > 2 {
			notable = 2
		}
		score += 0.1 * float64(notable)

		if len(mem.Relationship.Participants) > 2 {
			score += 0.15
		}
	}

	return clamp01(score)
}

// lifeEventFactor scores life-event significance cumulatively across
// rare-event tags and content keyword matches.
func (w *Weighter) lifeEventFactor(mem *schema.Memory) float64 {
	var score float64

	for _, tag := range mem.Tags {
		if rareEventTags[strings.ToLower(tag)] {
			score += 0.6
		}
	}

	matches := countKeywordMatches(mem.Content, lifeEventKeywords)
	if matches > 3 {
		matches = 3
	}
	score += 0.3 * float64(matches)

	return clamp01(score)
}

// vulnerabilityFactor scores participant vulnerability from role and context
// indicators in content and participant names.
func (w *Weighter) vulnerabilityFactor(mem *schema.Memory) float64 {
	score := 0.2

	text := mem.Content
	if mem.Relationship != nil {
		text += " " + strings.Join(mem.Relationship.Participants, " ")
	}

	matches := countKeywordMatches(text, vulnerabilityIndicators)
	if matches > 4 {
		matches = 4
	}
	score += 0.15 * float64(matches)

	if mem.Relationship != nil {
		for _, p := range mem.Relationship.CommunicationPatterns {
			if lower := strings.ToLower(p); lower == "withdrawal" || lower == "criticism" {
				score += 0.1
				break
			}
		}
	}

	return clamp01(score)
}

// temporalFactor scores temporal importance from recency, special-date
// proximity, and weekend or family context.
func (w *Weighter) temporalFactor(mem *schema.Memory) float64 {
	if mem.Timestamp.IsZero() {
		// Missing timestamp: neutral midpoint, same as other absent inputs.
		return 0.5
	}

	var score float64

	age := w.now().Sub(mem.Timestamp)
	const recencyWindow = 30 * 24 * time.Hour
	if age >= 0 && age <= recencyWindow {
		score += 0.6 * (1 - age.Seconds()/recencyWindow.Seconds())
	}

	if nearSpecialDate(mem.Timestamp, 7) {
		score += 0.25
	}

	switch mem.Timestamp.Weekday() {
	case time.Saturday, time.Sunday:
		score += 0.1
	}

	if mem.Relationship != nil && strings.EqualFold(mem.Relationship.RelationshipType, "family") {
		score += 0.15
	}

	return clamp01(score)
}

// buildNarrative explains the dominant contributing factors.
func buildNarrative(overall float64, factors Factors) string {
	dominant := factors.Dominant()
	if len(dominant) == 0 {
		return "Low significance across all factors."
	}
	if len(dominant) > 2 {
		dominant = dominant[:2]
	}

	var level string
	switch {
	case overall >= HighThreshold:
		level = "High"
	case overall >= MediumThreshold:
		level = "Medium"
	default:
		level = "Low"
	}

	return fmt.Sprintf("%s significance (%.2f), driven primarily by %s.",
		level, overall, strings.Join(dominant, " and "))
}

// fallbackScore returns the low default score with an explanatory narrative.
func fallbackScore(narrative string) Score {
	return Score{
		Overall: fallbackOverall,
		Factors: Factors{
			Intensity:          fallbackOverall,
			RelationshipImpact: fallbackOverall,
			LifeEvent:          fallbackOverall,
			Vulnerability:      fallbackOverall,
			Temporal:           fallbackOverall,
		},
		Narrative: narrative,
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
