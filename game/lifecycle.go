package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/predprey/brain"
	"github.com/pthm-cable/predprey/components"
	"github.com/pthm-cable/predprey/config"
)

// NewPredatorSpec builds the predator decision tree from cfg:
//
//	when AllOrNothing(gate, Distance, Hunger) -> Concurrently(Eat, Pursue)
//	when Hunger                               -> Pursue
//	otherwise Rest                             (only with rest_fallback)
func NewPredatorSpec(cfg *config.Config) *brain.ThinkerSpec {
	spec := brain.NewThinkerSpec(newPicker(cfg)).
		When(
			brain.AllOrNothing(cfg.Derived.GateThresh,
				brain.DistanceScorer(cfg.Derived.Distance32),
				brain.HungerScorer(),
			),
			brain.Concurrently(brain.Eat(), brain.Pursue()),
		).
		When(brain.HungerScorer(), brain.Pursue())

	if cfg.Thinker.RestFallback {
		spec.Otherwise(brain.Rest())
	}
	return spec
}

func newPicker(cfg *config.Config) brain.Picker {
	if cfg.Thinker.Picker == config.PickerHighest {
		return brain.HighestScore{Threshold: cfg.Derived.PickerThresh}
	}
	return brain.FirstToScore{Threshold: cfg.Derived.PickerThresh}
}

// spawnInitialPopulation creates one predator at the origin and the configured prey.
func (g *Game) spawnInitialPopulation() {
	g.SpawnPredator(components.NewPosition(0, 0, 0))

	spread := g.cfg.Prey.Spread
	for i := 0; i < g.cfg.Prey.Count; i++ {
		x := (g.rng.Float64() - 0.5) * spread
		y := (g.rng.Float64() - 0.5) * spread
		g.SpawnPrey(components.NewPosition(x, y, 0), g.cfg.Derived.PreyPoints32)
	}
}

// SpawnPredator creates a predator with a fresh thinker.
func (g *Game) SpawnPredator(pos components.Position) ecs.Entity {
	hunger := components.NewHunger(g.cfg.Derived.InitHunger32)
	thinker := brain.NewThinker(g.arena, g.spec)
	return g.predMapper.NewEntity(
		&pos,
		&hunger,
		&components.Target{},
		&components.Perception{},
		&thinker,
		&components.Predator{},
	)
}

// SpawnPrey creates a prey holding points.
func (g *Game) SpawnPrey(pos components.Position, points float32) ecs.Entity {
	return g.preyMapper.NewEntity(&pos, &components.Prey{Points: points})
}

// PreyCount returns the number of prey entities in the world.
func (g *Game) PreyCount() int {
	n := 0
	query := g.preyFilter.Query()
	for query.Next() {
		n++
	}
	return n
}

// PredatorCount returns the number of predators in the world.
func (g *Game) PredatorCount() int {
	n := 0
	query := g.predFilter.Query()
	for query.Next() {
		n++
	}
	return n
}
