package game

import "math"

// maxFixedSteps caps the fixed steps run for one frame. Time beyond the
// cap stays in the accumulator and is paid out on later frames.
const maxFixedSteps = 8

// Clock splits frame time into the variable action delta and a count of
// fixed physiological steps.
type Clock struct {
	step float64
	acc  float64
}

// NewClock returns a clock that emits fixedHz fixed steps per simulated second.
func NewClock(fixedHz float64) Clock {
	if fixedHz <= 0 {
		fixedHz = 60
	}
	return Clock{step: 1 / fixedHz}
}

// Advance consumes frameDT seconds. It returns the delta actions should use
// and how many fixed steps elapsed. Negative or NaN deltas count as zero.
func (c *Clock) Advance(frameDT float32) (dt float32, fixedSteps int) {
	d := float64(frameDT)
	if math.IsNaN(d) || d < 0 {
		d = 0
	}

	c.acc += d
	n := int(c.acc / c.step)
	if n > maxFixedSteps {
		n = maxFixedSteps
	}
	c.acc -= float64(n) * c.step
	return float32(d), n
}

// Backlog returns the accumulated time not yet paid out as fixed steps.
func (c *Clock) Backlog() float64 {
	return c.acc
}

// Step returns the fixed step length in seconds.
func (c *Clock) Step() float64 {
	return c.step
}
