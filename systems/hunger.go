package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/predprey/components"
)

// HungerSystem raises every actor's hunger on the fixed clock.
type HungerSystem struct {
	filter  ecs.Filter1[components.Hunger]
	perStep float32
}

// NewHungerSystem creates a hunger system that adds perStep on every fixed step.
func NewHungerSystem(w *ecs.World, perStep float32) *HungerSystem {
	return &HungerSystem{
		filter:  *ecs.NewFilter1[components.Hunger](w),
		perStep: perStep,
	}
}

// Update applies steps fixed steps of hunger growth.
func (s *HungerSystem) Update(steps int) {
	if steps <= 0 {
		return
	}
	query := s.filter.Query()
	for query.Next() {
		h := query.Get()
		for i := 0; i < steps; i++ {
			h.Set(h.Get() + s.perStep)
		}
		slog.Debug("hunger", "entity", query.Entity(), "value", h.Get())
	}
}
