package domain

// Quadrant is the categorical axis of a radar.
type Quadrant string

// The four quadrants of a radar.
const (
	QuadrantTools                  Quadrant = "tools"
	QuadrantTechniques             Quadrant = "techniques"
	QuadrantPlatforms              Quadrant = "platforms"
	QuadrantLanguagesAndFrameworks Quadrant = "languages-and-frameworks"
)

// Ring is the maturity axis of a radar.
type Ring string

// The four rings of a radar, from most to least recommended.
const (
	RingAdopt  Ring = "adopt"
	RingTrial  Ring = "trial"
	RingAssess Ring = "assess"
	RingHold   Ring = "hold"
)

// Quadrants returns all quadrants in display order.
func Quadrants() []Quadrant {
	return []Quadrant{
		QuadrantTools,
		QuadrantTechniques,
		QuadrantPlatforms,
		QuadrantLanguagesAndFrameworks,
	}
}

// Rings returns all rings in display order.
func Rings() []Ring {
	return []Ring{RingAdopt, RingTrial, RingAssess, RingHold}
}

// IsValid reports whether q is one of the fixed quadrants. Matching is exact.
func (q Quadrant) IsValid() bool {
	switch q {
	case QuadrantTools, QuadrantTechniques, QuadrantPlatforms, QuadrantLanguagesAndFrameworks:
		return true
	default:
		return false
	}
}

// IsValid reports whether r is one of the fixed rings. Matching is exact.
func (r Ring) IsValid() bool {
	switch r {
	case RingAdopt, RingTrial, RingAssess, RingHold:
		return true
	default:
		return false
	}
}

// ValidateClassification checks a quadrant and ring pair and reports every
// failing field at once.
func ValidateClassification(quadrant Quadrant, ring Ring) error {
	verr := &ValidationError{}
	if !quadrant.IsValid() {
		verr.Add("quadrant", "is not included in the list", ErrInvalidQuadrant)
	}
	if !ring.IsValid() {
		verr.Add("ring", "is not included in the list", ErrInvalidRing)
	}
	return verr.OrNil()
}
