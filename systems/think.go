package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/predprey/brain"
	"github.com/pthm-cable/predprey/components"
)

// ThinkSystem scores every actor's choices and lets its thinker decide.
type ThinkSystem struct {
	filter ecs.Filter3[components.Hunger, components.Perception, brain.Thinker]
}

// NewThinkSystem creates a new think system.
func NewThinkSystem(w *ecs.World) *ThinkSystem {
	return &ThinkSystem{
		filter: *ecs.NewFilter3[components.Hunger, components.Perception, brain.Thinker](w),
	}
}

// Score evaluates all choice scorers from this tick's senses.
func (s *ThinkSystem) Score(arena *brain.Arena) {
	query := s.filter.Query()
	for query.Next() {
		hunger, perc, th := query.Get()
		th.Evaluate(arena, Senses{Hunger: hunger.Get(), Perception: *perc})
	}
}

// Decide runs every thinker and reports each decision through fn, which may be nil.
func (s *ThinkSystem) Decide(arena *brain.Arena, fn func(actor ecs.Entity, th *brain.Thinker, d brain.Decision)) {
	query := s.filter.Query()
	for query.Next() {
		_, _, th := query.Get()
		d := th.Decide(arena, query.Entity())
		if fn != nil {
			fn(query.Entity(), th, d)
		}
	}
}
