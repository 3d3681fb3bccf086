package significance

import (
	"strings"
	"time"
)

// lifeEventKeywords are content keywords indicating a significant life event.
// Matching is case-insensitive substring matching on the memory content.
var lifeEventKeywords = []string{
	"wedding", "married", "engaged", "engagement",
	"birth", "born", "pregnant", "pregnancy", "baby",
	"funeral", "died", "death", "passed away", "loss",
	"divorce", "separated", "breakup", "broke up",
	"graduation", "graduated", "diploma",
	"diagnosis", "diagnosed", "hospital", "surgery",
	"new job", "promotion", "fired", "laid off", "retirement", "retired",
	"moving", "moved", "new home", "bought a house",
	"anniversary", "proposal",
}

// rareEventTags are pipeline tags that mark an uncommon, significant event.
var rareEventTags = map[string]bool{
	"life-event":  true,
	"milestone":   true,
	"crisis":      true,
	"celebration": true,
	"bereavement": true,
	"transition":  true,
}

// significantThemes are emotional themes that raise intensity on their own.
var significantThemes = map[string]bool{
	"loss":           true,
	"grief":          true,
	"trauma":         true,
	"celebration":    true,
	"reconciliation": true,
	"conflict":       true,
	"fear":           true,
	"hope":           true,
}

// notablePatterns are communication patterns that indicate relationship
// impact beyond an ordinary exchange.
var notablePatterns = map[string]bool{
	"conflict":          true,
	"withdrawal":        true,
	"reconciliation":    true,
	"deep-disclosure":   true,
	"active-listening":  true,
	"emotional-support": true,
	"criticism":         true,
}

// vulnerabilityIndicators are content or participant markers suggesting a
// vulnerable participant or context.
var vulnerabilityIndicators = []string{
	"child", "kid", "teenager", "elderly", "grandmother", "grandfather",
	"therapist", "therapy", "counselor", "doctor", "patient",
	"grief", "grieving", "crying", "scared", "afraid", "alone", "helpless",
	"anxious", "depressed", "overwhelmed",
}

// specialDates are recurring month/day anchors whose proximity boosts
// temporal importance.
var specialDates = []struct {
	month time.Month
	day   int
}{
	{time.January, 1},	// New Year's Day
	{time.February, 14},	// Valentine's Day
	{time.October, 31},	// Halloween
	{time.December, 24},	// Christmas Eve
	{time.December, 25},	// Christmas Day
	{time.December, 31},	// New Year's Eve
}

// countKeywordMatches returns how many keywords appear in the text.
// Matching is case-insensitive; text is lowered once.
func countKeywordMatches(text string, keywords []string) int {
	if text == "" {
		return 0
	}
	lower := strings.ToLower(text)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			matches++
		}
	}
	return matches
}

// nearSpecialDate reports whether t falls within the given number of days of
// a special date, ignoring year.
func nearSpecialDate(t time.Time, withinDays int) bool {
	for _, sd := range specialDates {
		anchor := time.Date(t.Year(), sd.month, sd.day, 0, 0, 0, 0, t.Location())
		diff := t.Sub(anchor)
		if diff < 0 {
			diff = -diff
		}
		if diff <= time.Duration(withinDays)*24*time.Hour {
			return true
		}
		// Handle year boundaries (e.g., Jan 1 vs Dec 31).
		prev := anchor.AddDate(-1, 0, 0)
		next := anchor.AddDate(1, 0, 0)
		for _, alt := range []time.Time{prev, next} {
			diff = t.Sub(alt)
			if diff < 0 {
				diff = -diff
			}
			if diff <= time.Duration(withinDays)*24*time.Hour {
				return true
			}
		}
	}
	return false
}
