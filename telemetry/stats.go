package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	RunID           string  `csv:"run_id"`
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	PreyCount int `csv:"prey"`
	PredCount int `csv:"pred"`

	// Decisions during window
	Activations   int `csv:"activations"`
	Cancellations int `csv:"cancellations"`
	Successes     int `csv:"successes"`
	Failures      int `csv:"failures"`

	// Leaf actions during window
	Pursues        int     `csv:"pursues"`
	Eats           int     `csv:"eats"`
	Rests          int     `csv:"rests"`
	PointsEaten    float64 `csv:"points_eaten"`
	MissingTargets int     `csv:"missing_targets"`
	PreyDestroyed  int     `csv:"prey_destroyed"`

	// Hunger distribution (sampled every tick)
	HungerMean float64 `csv:"hunger_mean"`
	HungerP10  float64 `csv:"hunger_p10"`
	HungerP50  float64 `csv:"hunger_p50"`
	HungerP90  float64 `csv:"hunger_p90"`

	// Remaining prey value at window end
	PreyPointsMean float64 `csv:"prey_points_mean"`
}

// Quantile returns the p-quantile of a sorted slice using the empirical CDF.
// Returns 0 if the slice is empty.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	switch {
	case p <= 0:
		return sorted[0]
	case p >= 1:
		return sorted[len(sorted)-1]
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeStats calculates mean and percentiles of values.
func ComputeStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = Quantile(sorted, 0.10)
	p50 = Quantile(sorted, 0.50)
	p90 = Quantile(sorted, 0.90)
	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", s.RunID),
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("prey", s.PreyCount),
		slog.Int("pred", s.PredCount),
		slog.Int("activations", s.Activations),
		slog.Int("cancellations", s.Cancellations),
		slog.Int("successes", s.Successes),
		slog.Int("failures", s.Failures),
		slog.Int("pursues", s.Pursues),
		slog.Int("eats", s.Eats),
		slog.Int("rests", s.Rests),
		slog.Float64("points_eaten", s.PointsEaten),
		slog.Int("missing_targets", s.MissingTargets),
		slog.Int("prey_destroyed", s.PreyDestroyed),
		slog.Float64("hunger_mean", s.HungerMean),
		slog.Float64("hunger_p10", s.HungerP10),
		slog.Float64("hunger_p50", s.HungerP50),
		slog.Float64("hunger_p90", s.HungerP90),
		slog.Float64("prey_points_mean", s.PreyPointsMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
