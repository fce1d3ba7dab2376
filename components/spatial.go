package components

import "gonum.org/v1/gonum/spatial/r3"

// Position represents an entity's world position.
// The demo lives on the z=0 plane but movement is fully 3D.
type Position struct {
	r3.Vec
}

// NewPosition returns a Position at the given coordinates.
func NewPosition(x, y, z float64) Position {
	return Position{Vec: r3.Vec{X: x, Y: y, Z: z}}
}

// DistanceSq returns the squared distance between two positions.
func (p Position) DistanceSq(o Position) float64 {
	return r3.Norm2(r3.Sub(o.Vec, p.Vec))
}

// Perception caches what an actor sensed this tick.
type Perception struct {
	NearestSq float64 // squared distance to the nearest live prey
	Found     bool    // false when no live prey exists
}

// InRange reports whether the nearest prey lies within radius.
func (p Perception) InRange(radius float64) bool {
	return p.Found && p.NearestSq <= radius*radius
}
