package telemetry

import (
	"math"

	"github.com/pthm-cable/predprey/brain"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	runID               string
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32
	elapsed         float64 // simulated seconds since the run started

	// Event counters for current window
	activations    int
	cancellations  int
	successes      int
	failures       int
	pursues        int
	eats           int
	rests          int
	pointsEaten    float64
	missingTargets int
	preyDestroyed  int

	hungerSamples []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(runID string, windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		runID:               runID,
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordDecision records what a thinker did this tick.
func (c *Collector) RecordDecision(d brain.Decision) {
	if d.Activated {
		c.activations++
	}
	if d.Cancelled {
		c.cancellations++
	}
	if d.Retired {
		switch d.RetiredState {
		case brain.Success:
			c.successes++
		case brain.Failure:
			c.failures++
		}
	}
}

// RecordActions records leaf action counts.
func (c *Collector) RecordActions(pursues, eats, rests int, points float32) {
	c.pursues += pursues
	c.eats += eats
	c.rests += rests
	c.pointsEaten += float64(points)
}

// RecordMissingTarget records an action that found no target.
func (c *Collector) RecordMissingTarget() {
	c.missingTargets++
}

// RecordPreyDestroyed records n prey removed from the world.
func (c *Collector) RecordPreyDestroyed(n int) {
	c.preyDestroyed += n
}

// AdvanceTime adds one tick's delta to the simulated run time.
func (c *Collector) AdvanceTime(dt float32) {
	c.elapsed += float64(dt)
}

// SampleHunger records one hunger observation.
func (c *Collector) SampleHunger(h float32) {
	c.hungerSamples = append(c.hungerSamples, float64(h))
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// preyPoints holds the remaining points of every live prey.
func (c *Collector) Flush(currentTick int32, preyCount, predCount int, preyPoints []float64) WindowStats {
	hMean, hP10, hP50, hP90 := ComputeStats(c.hungerSamples)
	pointsMean, _, _, _ := ComputeStats(preyPoints)

	stats := WindowStats{
		RunID:           c.runID,
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      c.elapsed,

		PreyCount: preyCount,
		PredCount: predCount,

		Activations:   c.activations,
		Cancellations: c.cancellations,
		Successes:     c.successes,
		Failures:      c.failures,

		Pursues:        c.pursues,
		Eats:           c.eats,
		Rests:          c.rests,
		PointsEaten:    c.pointsEaten,
		MissingTargets: c.missingTargets,
		PreyDestroyed:  c.preyDestroyed,

		HungerMean: hMean,
		HungerP10:  hP10,
		HungerP50:  hP50,
		HungerP90:  hP90,

		PreyPointsMean: pointsMean,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.activations = 0
	c.cancellations = 0
	c.successes = 0
	c.failures = 0
	c.pursues = 0
	c.eats = 0
	c.rests = 0
	c.pointsEaten = 0
	c.missingTargets = 0
	c.preyDestroyed = 0
	c.hungerSamples = c.hungerSamples[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
