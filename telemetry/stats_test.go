package telemetry

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pthm-cable/predprey/brain"
)

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.0},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.0},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Quantile(tt.sorted, tt.p), 1e-9)
		})
	}
}

func TestComputeStats(t *testing.T) {
	values := []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1}
	mean, p10, p50, p90 := ComputeStats(values)

	assert.InDelta(t, 0.55, mean, 1e-9)
	assert.InDelta(t, 0.1, p10, 1e-9)
	assert.InDelta(t, 0.5, p50, 1e-9)
	assert.InDelta(t, 0.9, p90, 1e-9)
	assert.Equal(t, 1.0, values[0], "input left unsorted")
}

func TestComputeStatsEmpty(t *testing.T) {
	mean, p10, p50, p90 := ComputeStats(nil)
	assert.Zero(t, mean)
	assert.Zero(t, p10)
	assert.Zero(t, p50)
	assert.Zero(t, p90)
}

func TestCollectorWindowTicksRounded(t *testing.T) {
	// 1.0 / float32(0.1) is just below 10
	assert.Equal(t, int32(10), NewCollector("r", 1.0, 0.1).WindowDurationTicks())
	assert.Equal(t, int32(600), NewCollector("r", 10, float32(1.0/60)).WindowDurationTicks())
	assert.Equal(t, int32(1), NewCollector("r", 0.001, 0.1).WindowDurationTicks())
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector("run-1", 1.0, 0.1)
	assert.Equal(t, int32(10), c.WindowDurationTicks())
	assert.False(t, c.ShouldFlush(9))
	assert.True(t, c.ShouldFlush(10))

	c.RecordDecision(brain.Decision{Activated: true})
	c.RecordDecision(brain.Decision{Cancelled: true})
	c.RecordDecision(brain.Decision{Retired: true, RetiredState: brain.Failure, Activated: true})
	c.RecordDecision(brain.Decision{Retired: true, RetiredState: brain.Success})
	c.RecordActions(2, 1, 0, 2.0)
	c.RecordMissingTarget()
	c.RecordPreyDestroyed(1)
	c.SampleHunger(1)
	c.SampleHunger(0)
	for i := 0; i < 10; i++ {
		c.AdvanceTime(0.1)
	}

	s := c.Flush(10, 9, 1, []float64{0.9, 0.5})
	assert.Equal(t, "run-1", s.RunID)
	assert.Equal(t, int32(0), s.WindowStartTick)
	assert.Equal(t, int32(10), s.WindowEndTick)
	assert.InDelta(t, 1.0, s.SimTimeSec, 1e-6)
	assert.Equal(t, 2, s.Activations)
	assert.Equal(t, 1, s.Cancellations)
	assert.Equal(t, 1, s.Successes)
	assert.Equal(t, 1, s.Failures)
	assert.Equal(t, 2, s.Pursues)
	assert.Equal(t, 1, s.Eats)
	assert.InDelta(t, 2.0, s.PointsEaten, 1e-9)
	assert.Equal(t, 1, s.MissingTargets)
	assert.Equal(t, 1, s.PreyDestroyed)
	assert.InDelta(t, 0.5, s.HungerMean, 1e-9)
	assert.InDelta(t, 0.7, s.PreyPointsMean, 1e-9)

	next := c.Flush(20, 9, 1, nil)
	assert.Equal(t, int32(10), next.WindowStartTick)
	assert.Zero(t, next.Activations)
	assert.Zero(t, next.HungerMean)
}

func TestWindowStatsLogValue(t *testing.T) {
	v := WindowStats{RunID: "r", Eats: 3}.LogValue()
	assert.Equal(t, slog.KindGroup, v.Kind())

	found := false
	for _, a := range v.Group() {
		if a.Key == "eats" {
			found = true
			assert.Equal(t, int64(3), a.Value.Int64())
		}
	}
	assert.True(t, found)
}
