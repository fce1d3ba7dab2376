package brain

// Senses exposes the facts about one actor that scorers read.
// Implementations are computed by the sensor phase once per tick.
type Senses interface {
	// HungerLevel returns the actor's hunger in [0, 1].
	HungerLevel() float32
	// PreyInRange reports whether any live prey lies within radius.
	PreyInRange(radius float32) bool
}

// ScorerKind enumerates the closed set of scorers.
type ScorerKind uint8

const (
	ScorerFixed ScorerKind = iota
	ScorerHunger
	ScorerDistance
	ScorerAllOrNothing
	ScorerSum
)

// String returns the display name for a ScorerKind.
func (k ScorerKind) String() string {
	switch k {
	case ScorerFixed:
		return "fixed"
	case ScorerHunger:
		return "hunger"
	case ScorerDistance:
		return "distance"
	case ScorerAllOrNothing:
		return "all_or_nothing"
	case ScorerSum:
		return "sum"
	default:
		return "unknown"
	}
}

// ScorerSpec is a scorer template. Only the fields relevant to Kind are used.
type ScorerSpec struct {
	Kind      ScorerKind
	Value     float32      // ScorerFixed
	Radius    float32      // ScorerDistance
	Threshold float32      // ScorerAllOrNothing, ScorerSum
	Children  []ScorerSpec // ScorerAllOrNothing, ScorerSum
}

// FixedScore always scores v.
func FixedScore(v float32) ScorerSpec {
	return ScorerSpec{Kind: ScorerFixed, Value: v}
}

// HungerScorer scores the actor's hunger level.
func HungerScorer() ScorerSpec {
	return ScorerSpec{Kind: ScorerHunger}
}

// DistanceScorer scores 1 when any prey is within radius of the actor, 0 otherwise.
func DistanceScorer(radius float32) ScorerSpec {
	return ScorerSpec{Kind: ScorerDistance, Radius: radius}
}

// AllOrNothing scores the product of its children when every child scores
// at least threshold, and 0 otherwise.
func AllOrNothing(threshold float32, children ...ScorerSpec) ScorerSpec {
	return ScorerSpec{Kind: ScorerAllOrNothing, Threshold: threshold, Children: children}
}

// SumOfScorers scores the sum of its children, or 0 when the sum is below threshold.
func SumOfScorers(threshold float32, children ...ScorerSpec) ScorerSpec {
	return ScorerSpec{Kind: ScorerSum, Threshold: threshold, Children: children}
}

// leafScore evaluates a scorer without children.
// Unknown kinds score 0 so a malformed tree never activates anything.
func leafScore(kind ScorerKind, value, radius float32, s Senses) float32 {
	switch kind {
	case ScorerFixed:
		return value
	case ScorerHunger:
		if s == nil {
			return 0
		}
		return s.HungerLevel()
	case ScorerDistance:
		if s != nil && s.PreyInRange(radius) {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// AllOrNothingScore combines child scores as an AND gate with graded output.
// An empty child set scores 0.
func AllOrNothingScore(threshold float32, scores []float32) float32 {
	if len(scores) == 0 {
		return 0
	}
	product := float32(1)
	for _, s := range scores {
		s = clampUnit(s)
		if s < threshold {
			return 0
		}
		product *= s
	}
	return clampUnit(product)
}

// SumScore adds child scores, returning 0 below threshold. An empty child set scores 0.
func SumScore(threshold float32, scores []float32) float32 {
	if len(scores) == 0 {
		return 0
	}
	var sum float32
	for _, s := range scores {
		sum += clampUnit(s)
	}
	if sum < threshold {
		return 0
	}
	return clampUnit(sum)
}
