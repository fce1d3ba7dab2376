// Package camera provides a top-down camera rig for viewing the z=0 plane.
package camera

import "math"

// Rig looks straight down at a point on the z=0 plane from a height.
// Pan moves the look-at point, zoom moves the rig along the view axis.
type Rig struct {
	// Look-at point on the plane
	X, Y float32

	// Distance above the plane
	Height float32

	// Vertical field of view in degrees
	FOV float32

	// Height constraints
	MinHeight, MaxHeight float32

	// Viewport width divided by height
	Aspect float32

	home struct{ x, y, h float32 }
}

// New creates a rig centered on the origin.
func New(height, fovDeg float32) *Rig {
	if height <= 0 {
		height = 24
	}
	r := &Rig{
		Height:    height,
		FOV:       fovDeg,
		MinHeight: 2,
		MaxHeight: height * 8,
		Aspect:    1,
	}
	r.home.h = height
	return r
}

// Pan moves the look-at point by a screen-space fraction of the visible area.
// A delta of 1 moves by the full visible half-extent.
func (r *Rig) Pan(dx, dy float32) {
	half := r.VisibleHalfExtent()
	r.X += dx * half
	r.Y += dy * half
}

// ZoomBy divides the height by factor, so factor > 1 zooms in.
func (r *Rig) ZoomBy(factor float32) {
	if factor <= 0 {
		return
	}
	r.Height = clamp(r.Height/factor, r.MinHeight, r.MaxHeight)
}

// Reset returns the rig to its initial framing.
func (r *Rig) Reset() {
	r.X, r.Y, r.Height = r.home.x, r.home.y, r.home.h
}

// VisibleHalfExtent returns half the vertical extent of the plane in view.
func (r *Rig) VisibleHalfExtent() float32 {
	rad := float64(r.FOV) * math.Pi / 180 / 2
	return r.Height * float32(math.Tan(rad))
}

// Eye returns the camera position.
func (r *Rig) Eye() (x, y, z float32) {
	return r.X, r.Y, r.Height
}

// SetViewport sets the aspect ratio from a viewport size in pixels.
// Non-positive sizes are ignored.
func (r *Rig) SetViewport(width, height float32) {
	if width <= 0 || height <= 0 {
		return
	}
	r.Aspect = width / height
}

// Contains reports whether a point on the plane is inside the visible
// rectangle around the look-at point, padded by margin.
func (r *Rig) Contains(x, y, margin float32) bool {
	halfY := r.VisibleHalfExtent()
	halfX := halfY * r.Aspect
	return absf(x-r.X) <= halfX+margin && absf(y-r.Y) <= halfY+margin
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
