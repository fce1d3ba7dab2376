package game

import (
	"log/slog"
)

// sampleHunger records every predator's hunger for the current window.
func (g *Game) sampleHunger() {
	query := g.predFilter.Query()
	for query.Next() {
		_, hunger, _, _ := query.Get()
		g.collector.SampleHunger(hunger.Get())
	}
}

// samplePreyPoints collects the remaining points of every prey.
func (g *Game) samplePreyPoints() []float64 {
	var points []float64
	query := g.preyFilter.Query()
	for query.Next() {
		_, prey := query.Get()
		points = append(points, float64(prey.Points))
	}
	return points
}

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	g.flushEvents()

	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	points := g.samplePreyPoints()
	stats := g.collector.Flush(g.tick, len(points), g.PredatorCount(), points)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// flushEvents writes buffered decision log rows.
func (g *Game) flushEvents() {
	if len(g.pendingEvents) == 0 {
		return
	}
	if err := g.outputManager.WriteEvents(g.pendingEvents); err != nil {
		slog.Error("failed to write events", "error", err)
	}
	g.pendingEvents = g.pendingEvents[:0]
}
