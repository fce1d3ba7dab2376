package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/predprey/brain"
	"github.com/pthm-cable/predprey/components"
	"github.com/pthm-cable/predprey/config"
	"github.com/pthm-cable/predprey/systems"
	"github.com/pthm-cable/predprey/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Prey.Count = 0
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config, outputDir string) *Game {
	t.Helper()
	g := NewGameWithOptions(Options{
		Config:    cfg,
		Seed:      1,
		Headless:  true,
		SkipSpawn: true,
		OutputDir: outputDir,
	})
	t.Cleanup(g.Unload)
	return g
}

func TestPredatorEatsAdjacentPrey(t *testing.T) {
	g := newTestGame(t, testConfig(t), "")
	g.SpawnPredator(components.NewPosition(0, 0, 0))
	g.SpawnPrey(components.NewPosition(0.5, 0, 0), 0.9)

	g.Step(0.1)

	assert.Equal(t, int32(1), g.Tick())
	assert.Equal(t, 1, g.LastActions().Eaten)
	assert.Equal(t, 1, g.LastActions().Pursued)
	assert.Equal(t, 0, g.PreyCount(), "depleted prey removed in the same tick")

	views := g.Snapshot()
	require.Len(t, views, 1)
	pred := views[0]
	assert.Equal(t, components.KindPredator, pred.Kind)
	assert.Equal(t, float32(0), pred.Hunger)
	assert.Equal(t, "concurrently(eat,pursue)", pred.Action)
	assert.Equal(t, "success", pred.State)
	assert.Equal(t, []float32{1, 1}, pred.Scores)
}

func TestPredatorPursuesDistantPrey(t *testing.T) {
	g := newTestGame(t, testConfig(t), "")
	g.SpawnPredator(components.NewPosition(0, 0, 0))
	g.SpawnPrey(components.NewPosition(10, 0, 0), 0.9)

	g.Step(0.1)

	assert.Equal(t, 1, g.LastActions().Pursued)
	assert.Equal(t, 0, g.LastActions().Eaten)
	assert.Equal(t, 1, g.PreyCount())

	views := g.Snapshot()
	require.Len(t, views, 2)
	assert.Equal(t, "pursue", views[0].Action)
	assert.InDelta(t, 1.0, views[0].Pos.X, 1e-5)
	assert.Equal(t, components.KindPrey, views[1].Kind)
	assert.Equal(t, float32(0.9), views[1].Points)
}

func TestIdleWithoutPrey(t *testing.T) {
	cfg := testConfig(t)
	cfg.Predator.InitialHunger = 0
	require.NoError(t, cfg.Recompute())

	g := newTestGame(t, cfg, "")
	g.SpawnPredator(components.NewPosition(0, 0, 0))

	for i := 0; i < 5; i++ {
		g.Step(0.1)
	}

	views := g.Snapshot()
	require.Len(t, views, 1)
	assert.Empty(t, views[0].Action)
	assert.InDelta(t, 5*6*0.003, views[0].Hunger, 1e-4)
	assert.Equal(t, 0, g.Arena().LiveActions())
}

func TestPausedUpdateDoesNothing(t *testing.T) {
	g := newTestGame(t, testConfig(t), "")
	g.SpawnPredator(components.NewPosition(0, 0, 0))

	g.SetPaused(true)
	g.Update(0.1)
	assert.Equal(t, int32(0), g.Tick())

	g.SetPaused(false)
	g.SetSpeed(3)
	g.Update(0.1)
	assert.Equal(t, int32(3), g.Tick())
}

func TestUpdateUsesFrameDelta(t *testing.T) {
	g := newTestGame(t, testConfig(t), "")
	g.SpawnPredator(components.NewPosition(0, 0, 0))
	g.SpawnPrey(components.NewPosition(10, 0, 0), 0.9)

	// Pursue covers speed*frameDT, independent of the configured frame_dt
	g.Update(0.2)

	views := g.Snapshot()
	require.NotEmpty(t, views)
	assert.InDelta(t, 2.0, views[0].Pos.X, 1e-5)
}

func TestDefaultConfigIsCloned(t *testing.T) {
	require.NoError(t, config.Init(""))
	g := NewGameWithOptions(Options{Seed: 1, Headless: true, SkipSpawn: true})
	defer g.Unload()

	before := config.Cfg().Derived.PickerThresh
	g.SetPickerThreshold(0.1)
	assert.Equal(t, before, config.Cfg().Derived.PickerThresh)
	assert.NotSame(t, config.Cfg(), g.Config())
}

func TestSetSpeedClamped(t *testing.T) {
	g := newTestGame(t, testConfig(t), "")
	g.SetSpeed(0)
	assert.Equal(t, 1, g.Speed())
	g.SetSpeed(99)
	assert.Equal(t, maxSpeed, g.Speed())
}

func TestSetPickerThreshold(t *testing.T) {
	g := newTestGame(t, testConfig(t), "")

	g.SetPickerThreshold(0.3)
	assert.Equal(t, float32(0.3), g.PickerThreshold())
	assert.Equal(t, brain.FirstToScore{Threshold: 0.3}, g.Spec().Picker)

	g.SetPickerThreshold(2)
	assert.Equal(t, float32(1), g.PickerThreshold())
}

func TestNewPredatorSpec(t *testing.T) {
	cfg := testConfig(t)
	spec := NewPredatorSpec(cfg)
	require.Len(t, spec.Choices, 2)
	assert.Equal(t, "concurrently(eat,pursue)", spec.Choices[0].Action.String())
	assert.Equal(t, "pursue", spec.Choices[1].Action.String())
	assert.Nil(t, spec.Fallback)
	assert.IsType(t, brain.FirstToScore{}, spec.Picker)

	cfg.Thinker.RestFallback = true
	cfg.Thinker.Picker = config.PickerHighest
	spec = NewPredatorSpec(cfg)
	require.NotNil(t, spec.Fallback)
	assert.Equal(t, "rest", spec.Fallback.String())
	assert.IsType(t, brain.HighestScore{}, spec.Picker)
}

func TestRestFallback(t *testing.T) {
	cfg := testConfig(t)
	cfg.Thinker.RestFallback = true
	cfg.Predator.InitialHunger = 0
	require.NoError(t, cfg.Recompute())

	g := newTestGame(t, cfg, "")
	g.SpawnPredator(components.NewPosition(0, 0, 0))

	g.Step(0.1)
	assert.Equal(t, 1, g.LastActions().Rested)
}

func TestInitialPopulation(t *testing.T) {
	cfg := testConfig(t)
	cfg.Prey.Count = 10
	g := NewGameWithOptions(Options{Config: cfg, Seed: 7, Headless: true})
	defer g.Unload()

	assert.Equal(t, 1, g.PredatorCount())
	assert.Equal(t, 10, g.PreyCount())

	half := cfg.Prey.Spread / 2
	for _, v := range g.Snapshot() {
		if v.Kind != components.KindPrey {
			continue
		}
		assert.LessOrEqual(t, v.Pos.X, half)
		assert.GreaterOrEqual(t, v.Pos.X, -half)
		assert.LessOrEqual(t, v.Pos.Y, half)
		assert.GreaterOrEqual(t, v.Pos.Y, -half)
		assert.Zero(t, v.Pos.Z)
	}
}

func TestStatsCallbackAndOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	cfg.Telemetry.StatsWindow = 0.5
	require.NoError(t, cfg.Recompute())

	g := NewGameWithOptions(Options{Config: cfg, Seed: 1, Headless: true, SkipSpawn: true, OutputDir: dir})
	g.SpawnPredator(components.NewPosition(0, 0, 0))
	g.SpawnPrey(components.NewPosition(0.5, 0, 0), 0.9)

	var windows []telemetry.WindowStats
	g.SetStatsCallback(func(s telemetry.WindowStats) {
		windows = append(windows, s)
	})

	for i := 0; i < 60; i++ {
		g.Step(cfg.Derived.FrameDT32)
	}
	g.Unload()

	require.NotEmpty(t, windows)
	assert.Equal(t, g.RunID(), windows[0].RunID)

	for _, name := range []string{"telemetry.csv", "perf.csv", "events.csv", "config.yaml"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
}

func TestDecisionLabelsNameCancelledAction(t *testing.T) {
	g := newTestGame(t, testConfig(t), "")
	actor := g.SpawnPredator(components.NewPosition(0, 0, 0))

	th := brain.NewThinker(g.arena, g.spec)
	defer th.Release(g.arena)

	far := systems.Senses{Hunger: 1, Perception: components.Perception{NearestSq: 100, Found: true}}
	th.Evaluate(g.arena, far)
	d := th.Decide(g.arena, actor)
	require.True(t, d.Activated)
	assert.Equal(t, "pursue", g.decisionLabels(&th, d).Chosen)

	near := systems.Senses{Hunger: 1, Perception: components.Perception{NearestSq: 0.25, Found: true}}
	th.Evaluate(g.arena, near)
	d = th.Decide(g.arena, actor)
	require.True(t, d.Cancelled)

	labels := g.decisionLabels(&th, d)
	assert.Equal(t, "pursue", labels.Cancelled)
	assert.Equal(t, "concurrently(eat,pursue)", labels.Chosen)
}
