package significance

// Factor weights for the overall significance score. Fixed by design; unlike
// confidence weights they are not recalibrated from feedback.
const (
	WeightIntensity          = 0.30
	WeightRelationshipImpact = 0.25
	WeightLifeEvent          = 0.20
	WeightVulnerability      = 0.15
	WeightTemporal           = 0.10
)

// Significance buckets used by the priority distribution.
const (
	// HighThreshold marks scores treated as high significance.
	HighThreshold = 0.7

	// MediumThreshold marks the lower bound of medium significance.
	MediumThreshold = 0.4
)

// Factors holds the five independently computed significance factors,
// each in [0,1].
type Factors struct {
	// Intensity reflects mood strength, secondary-emotion breadth, and
	// significant emotional themes.
	Intensity float64 `json:"intensity"`

	// RelationshipImpact reflects interaction quality, notable communication
	// patterns, and group size.
	RelationshipImpact float64 `json:"relationship_impact"`

	// LifeEvent reflects rare-event tags and significant keyword matches in
	// the memory content.
	LifeEvent float64 `json:"life_event_significance"`

	// Vulnerability reflects participant role and context indicators.
	Vulnerability float64 `json:"vulnerability"`

	// Temporal reflects recency, special-date proximity, and weekend or
	// family context.
	Temporal float64 `json:"temporal_importance"`
}

// Score is the emotional significance of a single memory.
type Score struct {
	// Overall is the fixed-weight combination of the five factors, in [0,1].
	Overall float64 `json:"overall"`

	// Factors are the individual factor scores.
	Factors Factors `json:"factors"`

	// Narrative explains the dominant contributing factors in plain language.
	Narrative string `json:"narrative"`
}

// Combine computes the weighted overall score from the factors.
func (f Factors) Combine() float64 {
	return f.Intensity*WeightIntensity +
		f.RelationshipImpact*WeightRelationshipImpact +
		f.LifeEvent*WeightLifeEvent +
		f.Vulnerability*WeightVulnerability +
		f.Temporal*WeightTemporal
}

// Dominant returns the factor names ordered by weighted contribution,
// strongest first. Only factors contributing above a noise floor are included.
func (f Factors) Dominant() []string {
	type contribution struct {
		name  string
		value float64
	}
	contributions := []contribution{
		{"emotional intensity", f.Intensity * WeightIntensity},
		{"relationship impact", f.RelationshipImpact * WeightRelationshipImpact},
		{"life-event significance", f.LifeEvent * WeightLifeEvent},
		{"participant vulnerability", f.Vulnerability * WeightVulnerability},
		{"temporal importance", f.Temporal * WeightTemporal},
	}

	// Insertion sort; five elements.
	for i := 1; i < len(contributions); i++ {
		for j := i; j > 0 && contributions[j].value > contributions[j-1].value; j-- {
			contributions[j], contributions[j-1] = contributions[j-1], contributions[j]
		}
	}

	names := make([]string, 0, len(contributions))
	for _, c := range contributions {
		if c.value < 0.05 {
			continue
		}
		names = append(names, c.name)
	}
	return names
}
