package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase is one stage of a simulation tick.
type Phase int

// Tick phases in execution order.
const (
	PhaseHunger Phase = iota
	PhaseSensors
	PhaseScoring
	PhaseThinking
	PhaseDispatch
	PhaseActions
	PhaseCollect
	PhaseCleanup
	PhaseTelemetry

	numPhases
)

var phaseNames = [numPhases]string{
	"hunger", "sensors", "scoring", "thinking", "dispatch",
	"actions", "collect", "cleanup", "telemetry",
}

// String returns the phase name used in logs and CSV columns.
func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// tickSample is the timing of one tick.
type tickSample struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector keeps the phase timings of the last N ticks in a ring.
type PerfCollector struct {
	ring  []tickSample
	next  int
	count int

	cur        tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool
}

// NewPerfCollector creates a collector over a window of n ticks.
func NewPerfCollector(n int) *PerfCollector {
	if n < 1 {
		n = 60
	}
	return &PerfCollector{ring: make([]tickSample, n)}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.cur = tickSample{}
	p.tickStart = time.Now()
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing ph.
func (p *PerfCollector) StartPhase(ph Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase, p.phaseStart, p.inPhase = ph, now, true
}

// EndTick closes the last phase and stores the tick in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase && p.phase >= 0 && p.phase < numPhases {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.inPhase = false
}

// PerfStats summarises the ticks in the window. Durations are in microseconds.
type PerfStats struct {
	Ticks          int
	AvgTickUS      float64
	MinTickUS      float64
	MaxTickUS      float64
	TicksPerSecond float64

	// Mean time per phase and its share of the mean tick, in percent
	PhaseUS  [numPhases]float64
	PhasePct [numPhases]float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{Ticks: p.count}
	if p.count == 0 {
		return s
	}

	totals := make([]float64, p.count)
	phase := make([]float64, p.count)
	for i := 0; i < p.count; i++ {
		totals[i] = us(p.ring[i].total)
	}
	s.AvgTickUS = stat.Mean(totals, nil)
	s.MinTickUS = floats.Min(totals)
	s.MaxTickUS = floats.Max(totals)
	if s.AvgTickUS > 0 {
		s.TicksPerSecond = 1e6 / s.AvgTickUS
	}

	for ph := Phase(0); ph < numPhases; ph++ {
		for i := 0; i < p.count; i++ {
			phase[i] = us(p.ring[i].phases[ph])
		}
		s.PhaseUS[ph] = stat.Mean(phase, nil)
		if s.AvgTickUS > 0 {
			s.PhasePct[ph] = s.PhaseUS[ph] / s.AvgTickUS * 100
		}
	}
	return s
}

func us(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("ticks", s.Ticks),
		slog.Float64("avg_tick_us", s.AvgTickUS),
		slog.Float64("max_tick_us", s.MaxTickUS),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		if s.PhasePct[ph] >= 0.1 {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", s.PhasePct[ph]))
		}
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// PerfRow is one perf.csv row.
type PerfRow struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    float64 `csv:"avg_tick_us"`
	MinTickUS    float64 `csv:"min_tick_us"`
	MaxTickUS    float64 `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	HungerPct    float64 `csv:"hunger_pct"`
	SensorsPct   float64 `csv:"sensors_pct"`
	ScoringPct   float64 `csv:"scoring_pct"`
	ThinkingPct  float64 `csv:"thinking_pct"`
	DispatchPct  float64 `csv:"dispatch_pct"`
	ActionsPct   float64 `csv:"actions_pct"`
	CollectPct   float64 `csv:"collect_pct"`
	CleanupPct   float64 `csv:"cleanup_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// Row flattens the stats into a perf.csv row for the window ending at windowEnd.
func (s PerfStats) Row(windowEnd int32) PerfRow {
	return PerfRow{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickUS,
		MinTickUS:    s.MinTickUS,
		MaxTickUS:    s.MaxTickUS,
		TicksPerSec:  s.TicksPerSecond,
		HungerPct:    s.PhasePct[PhaseHunger],
		SensorsPct:   s.PhasePct[PhaseSensors],
		ScoringPct:   s.PhasePct[PhaseScoring],
		ThinkingPct:  s.PhasePct[PhaseThinking],
		DispatchPct:  s.PhasePct[PhaseDispatch],
		ActionsPct:   s.PhasePct[PhaseActions],
		CollectPct:   s.PhasePct[PhaseCollect],
		CleanupPct:   s.PhasePct[PhaseCleanup],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
