package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/predprey/components"
)

// preySample is a prey position captured at the start of the tick.
type preySample struct {
	entity ecs.Entity
	pos    components.Position
}

// SensorSystem locates the nearest prey for every actor.
// Prey positions are snapshotted once per tick, so all actors see the same world.
type SensorSystem struct {
	preyFilter  ecs.Filter2[components.Position, components.Prey]
	actorFilter ecs.Filter3[components.Position, components.Target, components.Perception]

	prey []preySample
}

// NewSensorSystem creates a new sensor system.
func NewSensorSystem(w *ecs.World) *SensorSystem {
	return &SensorSystem{
		preyFilter:  *ecs.NewFilter2[components.Position, components.Prey](w),
		actorFilter: *ecs.NewFilter3[components.Position, components.Target, components.Perception](w),
	}
}

// Update rebuilds Target and Perception for every actor.
// Depleted prey are ignored. Ties keep the prey seen first.
func (s *SensorSystem) Update() {
	s.prey = s.prey[:0]
	pq := s.preyFilter.Query()
	for pq.Next() {
		pos, prey := pq.Get()
		if prey.Depleted() {
			continue
		}
		s.prey = append(s.prey, preySample{entity: pq.Entity(), pos: *pos})
	}

	aq := s.actorFilter.Query()
	for aq.Next() {
		pos, target, perc := aq.Get()
		e, distSq, ok := s.Nearest(*pos)
		if !ok {
			target.Clear()
			*perc = components.Perception{}
			continue
		}
		target.Set(e)
		*perc = components.Perception{NearestSq: distSq, Found: true}
	}
}

// Nearest returns the closest prey from the current snapshot.
func (s *SensorSystem) Nearest(pos components.Position) (ecs.Entity, float64, bool) {
	best := -1
	var bestSq float64
	for i := range s.prey {
		d := pos.DistanceSq(s.prey[i].pos)
		if best < 0 || d < bestSq {
			best, bestSq = i, d
		}
	}
	if best < 0 {
		return ecs.Entity{}, 0, false
	}
	return s.prey[best].entity, bestSq, true
}

// PreyCount returns the number of live prey seen in the last Update.
func (s *SensorSystem) PreyCount() int {
	return len(s.prey)
}

// Senses adapts an actor's components to the scorer interface.
type Senses struct {
	Hunger     float32
	Perception components.Perception
}

// HungerLevel implements brain.Senses.
func (s Senses) HungerLevel() float32 {
	return s.Hunger
}

// PreyInRange implements brain.Senses.
func (s Senses) PreyInRange(radius float32) bool {
	return s.Perception.InRange(float64(radius))
}
