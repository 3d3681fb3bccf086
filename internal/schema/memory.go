// Package schema defines the Memory record shape consumed by the validation
// engine.
//
// Memory records are produced by an upstream extraction pipeline and owned by
// an external store. The engine treats them as read-only input and tolerates
// missing optional sub-structures: scoring code defaults absent numeric inputs
// to a neutral midpoint rather than failing the record.
package schema

import (
	"errors"
	"time"
)

// Common errors for Memory records.
var (
	ErrEmptyMemoryID     = errors.New("memory ID cannot be empty")
	ErrInvalidConfidence = errors.New("extraction confidence must be between 0.0 and 1.0")
)

// InteractionQuality describes the overall quality of the interaction a
// memory was extracted from.
type InteractionQuality string

const (
	// QualityPositive indicates a supportive or affirming interaction.
	QualityPositive InteractionQuality = "positive"

	// QualityNeutral indicates an unremarkable interaction.
	QualityNeutral InteractionQuality = "neutral"

	// QualityNegative indicates a tense or conflictual interaction.
	QualityNegative InteractionQuality = "negative"

	// QualityUnknown is used when the extraction pipeline could not assess
	// interaction quality. Scoring treats it as neutral.
	QualityUnknown InteractionQuality = "unknown"
)

// EmotionalContext holds the emotional annotation attached to a memory by the
// extraction pipeline.
type EmotionalContext struct {
	// PrimaryMood is the dominant mood label (e.g., "joyful", "anxious").
	PrimaryMood string `json:"primary_mood"`

	// MoodIntensity is the strength of the primary mood, 0.0 to 1.0.
	MoodIntensity float64 `json:"mood_intensity"`

	// SecondaryEmotions lists additional emotion labels detected alongside
	// the primary mood.
	SecondaryEmotions []string `json:"secondary_emotions,omitempty"`

	// Themes are emotional theme tags (e.g., "loss", "celebration").
	Themes []string `json:"themes,omitempty"`
}

// RelationshipDynamics holds the relationship annotation attached to a memory.
type RelationshipDynamics struct {
	// InteractionQuality is the assessed quality of the interaction.
	InteractionQuality InteractionQuality `json:"interaction_quality"`

	// Participants lists the people involved in the interaction.
	Participants []string `json:"participants,omitempty"`

	// CommunicationPatterns are pattern tags observed in the exchange
	// (e.g., "active-listening", "conflict", "withdrawal").
	CommunicationPatterns []string `json:"communication_patterns,omitempty"`

	// RelationshipType labels the relationship (e.g., "family", "friend").
	RelationshipType string `json:"relationship_type,omitempty"`
}

// Memory is a single extracted, emotionally-annotated conversational record
// under validation.
//
// The EmotionalContext and RelationshipDynamics pointers are optional: the
// pipeline may omit either when its own extraction was inconclusive. All
// engine code must go through the accessor helpers below rather than
// dereferencing them directly.
type Memory struct {
	// ID is the unique memory identifier.
	ID string `json:"id"`

	// Content is the free-text body of the memory, used for life-event
	// keyword detection.
	Content string `json:"content"`

	// Tags are caller-supplied labels, including rare-event tags.
	Tags []string `json:"tags,omitempty"`

	// ExtractionConfidence is the upstream pipeline's own confidence in the
	// extraction, 0.0 to 1.0.
	ExtractionConfidence float64 `json:"extraction_confidence"`

	// Emotional is the optional emotional annotation.
	Emotional *EmotionalContext `json:"emotional_context,omitempty"`

	// Relationship is the optional relationship annotation.
	Relationship *RelationshipDynamics `json:"relationship_dynamics,omitempty"`

	// Timestamp is when the underlying interaction occurred.
	Timestamp time.Time `json:"timestamp"`
}

// Validate checks the fields the engine depends on.
func (m *Memory) Validate() error {
	if m.ID == "" {
		return ErrEmptyMemoryID
	}
	if m.ExtractionConfidence < 0.0 || m.ExtractionConfidence > 1.0 {
		return ErrInvalidConfidence
	}
	return nil
}

// MoodIntensity returns the mood intensity, or the neutral midpoint when the
// emotional annotation is missing.
func (m *Memory) MoodIntensity() (float64, bool) {
	if m.Emotional == nil {
		return 0.5, false
	}
	return clamp01(m.Emotional.MoodIntensity), true
}

// Participants returns the participant list, or nil when the relationship
// annotation is missing.
func (m *Memory) Participants() []string {
	if m.Relationship == nil {
		return nil
	}
	return m.Relationship.Participants
}

// InteractionQuality returns the interaction quality, defaulting to
// QualityUnknown when the relationship annotation is missing.
func (m *Memory) InteractionQuality() InteractionQuality {
	if m.Relationship == nil || m.Relationship.InteractionQuality == "" {
		return QualityUnknown
	}
	return m.Relationship.InteractionQuality
}

// HasTag reports whether the memory carries the given tag.
func (m *Memory) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
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
