// Package components defines ECS components for the simulation.
package components

// Kind distinguishes the two roles an entity can play in the world.
type Kind uint8

const (
	KindPredator Kind = iota
	KindPrey
)

// String returns the display name for a Kind.
func (k Kind) String() string {
	switch k {
	case KindPredator:
		return "predator"
	case KindPrey:
		return "prey"
	default:
		return "unknown"
	}
}

// Predator tag component for efficient querying.
type Predator struct{}
