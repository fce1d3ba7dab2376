// Package game wires the ECS world, the decision arena and the world systems
// into a steppable simulation.
package game

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/predprey/brain"
	"github.com/pthm-cable/predprey/camera"
	"github.com/pthm-cable/predprey/components"
	"github.com/pthm-cable/predprey/config"
	"github.com/pthm-cable/predprey/renderer"
	"github.com/pthm-cable/predprey/systems"
	"github.com/pthm-cable/predprey/telemetry"
	"github.com/pthm-cable/predprey/ui"
)

// Options configures a new game.
type Options struct {
	Config         *config.Config // nil uses config.Cfg()
	Seed           int64          // 0 = time-based
	RunID          string         // empty = random UUID
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // empty disables CSV output
	Headless       bool
	StepsPerUpdate int
	SkipSpawn      bool // start with an empty world
}

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand
	runID string

	// Entity mappers
	predMapper *ecs.Map6[
		components.Position,
		components.Hunger,
		components.Target,
		components.Perception,
		brain.Thinker,
		components.Predator,
	]
	preyMapper *ecs.Map2[components.Position, components.Prey]

	predFilter *ecs.Filter4[components.Position, components.Hunger, brain.Thinker, components.Predator]
	preyFilter *ecs.Filter2[components.Position, components.Prey]
	targetMap  *ecs.Map[components.Target]

	// Decision making
	arena *brain.Arena
	spec  *brain.ThinkerSpec

	// Systems
	hunger  *systems.HungerSystem
	sensors *systems.SensorSystem
	think   *systems.ThinkSystem
	actions *systems.ActionSystem
	cleanup *systems.CleanupSystem
	queue   systems.CommandQueue

	clock Clock

	// Viewer (nil when headless)
	rig   *camera.Rig
	scene *renderer.Scene
	hud   *ui.HUD

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	pendingEvents []telemetry.Event
	lastActions   systems.ActionEvents

	// State
	tick           int32
	paused         bool
	stepsPerUpdate int
	speed          int
	headless       bool
}

// NewGame creates a game with default options.
func NewGame() *Game {
	return NewGameWithOptions(Options{})
}

// NewGameWithOptions creates a new game instance.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg().Clone()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:   cfg,
		world: world,
		rng:   rand.New(rand.NewSource(seed)),
		runID: runID,
		predMapper: ecs.NewMap6[
			components.Position,
			components.Hunger,
			components.Target,
			components.Perception,
			brain.Thinker,
			components.Predator,
		](world),
		preyMapper: ecs.NewMap2[components.Position, components.Prey](world),
		predFilter: ecs.NewFilter4[components.Position, components.Hunger, brain.Thinker, components.Predator](world),
		preyFilter: ecs.NewFilter2[components.Position, components.Prey](world),
		targetMap:  ecs.NewMap[components.Target](world),

		arena: brain.NewArena(),
		spec:  NewPredatorSpec(cfg),

		hunger:  systems.NewHungerSystem(world, cfg.Derived.HungerStep32),
		sensors: systems.NewSensorSystem(world),
		think:   systems.NewThinkSystem(world),
		actions: systems.NewActionSystem(world, cfg.Derived.Speed32, cfg.Derived.EatRate32),
		cleanup: systems.NewCleanupSystem(world),

		clock: NewClock(cfg.Clock.FixedHz),

		collector:     telemetry.NewCollector(runID, statsWindow, cfg.Derived.FrameDT32),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:      opts.LogStats,

		stepsPerUpdate: stepsPerUpdate,
		speed:          1,
		headless:       opts.Headless,
	}

	if !opts.Headless {
		g.rig = camera.New(float32(cfg.World.CameraHeight), float32(cfg.World.CameraFOV))
		g.rig.SetViewport(float32(cfg.Screen.Width), float32(cfg.Screen.Height))
		g.scene = renderer.NewScene(g.rig)
		g.hud = ui.NewHUD()
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	if !opts.SkipSpawn {
		g.spawnInitialPopulation()
	}

	slog.Info("game created",
		"run_id", runID,
		"seed", seed,
		"prey", g.PreyCount(),
		"policy", g.spec.Choices[0].Action.String(),
	)
	return g
}

// SetStatsCallback registers fn to receive every flushed stats window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Update advances the simulation by one rendered frame that took frameDT
// seconds of wall-clock time. Speed runs that many ticks per frame.
func (g *Game) Update(frameDT float32) {
	if g.paused {
		return
	}
	for i := 0; i < g.speed; i++ {
		g.Step(frameDT)
	}
}

// UpdateHeadless advances StepsPerUpdate ticks using the configured fixed frame delta.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step(g.cfg.Derived.FrameDT32)
	}
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// RunID returns the identifier attached to all telemetry of this run.
func (g *Game) RunID() string {
	return g.runID
}

// Config returns the configuration the game was built with.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// World exposes the ECS world.
func (g *Game) World() *ecs.World {
	return g.world
}

// Arena exposes the decision arena.
func (g *Game) Arena() *brain.Arena {
	return g.arena
}

// Spec returns the predator decision tree.
func (g *Game) Spec() *brain.ThinkerSpec {
	return g.spec
}

// LastActions returns what leaf actions did during the most recent tick.
func (g *Game) LastActions() systems.ActionEvents {
	return g.lastActions
}

// Paused reports whether Update is suspended.
func (g *Game) Paused() bool {
	return g.paused
}

// Speed returns the number of ticks run per rendered frame.
func (g *Game) Speed() int {
	return g.speed
}

// PickerThreshold returns the minimum score a choice needs to be picked.
func (g *Game) PickerThreshold() float32 {
	return g.cfg.Derived.PickerThresh
}

// SetPickerThreshold swaps the picker of the shared decision tree.
// Every thinker sees the new threshold on its next decision.
func (g *Game) SetPickerThreshold(v float32) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	g.cfg.Thinker.PickerThreshold = float64(v)
	g.cfg.Derived.PickerThresh = v
	g.spec.Picker = newPicker(g.cfg)
}

// Unload releases resources.
func (g *Game) Unload() {
	g.flushEvents()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}

	query := g.predFilter.Query()
	for query.Next() {
		_, _, th, _ := query.Get()
		th.Release(g.arena)
	}
}
