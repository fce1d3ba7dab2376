package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/predprey/config"
	"github.com/pthm-cable/predprey/game"
	"github.com/pthm-cable/predprey/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu   sync.Mutex
	last RunSummary
}

// RunSummary describes the seeds of one Evaluate call.
type RunSummary struct {
	MeanClearTicks float64
	MeanHunger     float64
	Cleared        int // seeds that ate every prey
	Seeds          int
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 1.0,
	}
}

// Last returns the summary of the most recent evaluation.
func (fe *FitnessEvaluator) Last() RunSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// runResult holds the results from a single simulation run.
type runResult struct {
	clearTicks  int32                   // ticks until no prey remained (or maxTicks)
	cleared     bool                    // every prey was eaten
	windowStats []telemetry.WindowStats // collected via the stats callback
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the mean number of ticks needed to eat every prey, weighted up
// by how hungry the predator stayed on the way.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]*runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	fitness := make([]float64, len(results))
	hunger := make([]float64, len(results))
	ticks := make([]float64, len(results))
	summary := RunSummary{Seeds: len(results)}
	for i, r := range results {
		hunger[i] = meanHunger(r.windowStats)
		fitness[i] = computeFitness(r, hunger[i])
		ticks[i] = float64(r.clearTicks)
		if r.cleared {
			summary.Cleared++
		}
	}
	summary.MeanClearTicks = stat.Mean(ticks, nil)
	summary.MeanHunger = stat.Mean(hunger, nil)

	fe.mu.Lock()
	fe.last = summary
	fe.mu.Unlock()

	return stat.Mean(fitness, nil)
}

// runSimulation executes a single headless simulation run.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.baseConfig.Clone()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		slog.Error("invalid parameters", "error", err)
		return &runResult{clearTicks: fe.maxTicks}
	}

	result := &runResult{clearTicks: fe.maxTicks}

	g := game.NewGameWithOptions(game.Options{
		Config:         cfg,
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
	})
	g.SetStatsCallback(func(stats telemetry.WindowStats) {
		result.windowStats = append(result.windowStats, stats)
	})
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
		if g.PreyCount() == 0 {
			result.clearTicks = g.Tick()
			result.cleared = true
			break
		}
	}
	return result
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: clearTicks × (1 + 0.2 × meanHunger), doubled when prey survived.
func computeFitness(r *runResult, hunger float64) float64 {
	f := float64(r.clearTicks) * (1.0 + 0.2*hunger)
	if !r.cleared {
		f *= 2
	}
	return f
}

// meanHunger averages the per-window hunger means, or returns 1 without windows.
func meanHunger(windows []telemetry.WindowStats) float64 {
	if len(windows) == 0 {
		return 1
	}
	means := make([]float64, len(windows))
	for i, w := range windows {
		means[i] = w.HungerMean
	}
	return clamp01(stat.Mean(means, nil))
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
