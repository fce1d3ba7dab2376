package components

import "github.com/mlange-42/ark/ecs"

// Hunger is a predator's need to eat, always within [0, 1].
// 1 is starving, 0 is sated.
type Hunger struct {
	value float32
}

// NewHunger returns a Hunger initialised through Set.
func NewHunger(v float32) Hunger {
	var h Hunger
	h.Set(v)
	return h
}

// Get returns the current hunger level.
func (h *Hunger) Get() float32 {
	return h.value
}

// Set stores v clamped to [0, 1]. NaN is stored as 0.
func (h *Hunger) Set(v float32) {
	switch {
	case v != v:
		v = 0
	case v < 0:
		v = 0
	case v > 1:
		v = 1
	}
	h.value = v
}

// Prey holds the remaining value of a prey entity.
// Once Points drops to or below zero the cleanup pass removes the entity.
type Prey struct {
	Points float32
}

// Depleted reports whether the prey is scheduled for removal.
func (p *Prey) Depleted() bool {
	return p.Points <= 0
}

// Target caches the nearest prey of an actor. It is rebuilt every tick
// and may point at an entity that has since been removed.
type Target struct {
	entity ecs.Entity
	valid  bool
}

// Get returns the cached entity and whether one is set.
func (t *Target) Get() (ecs.Entity, bool) {
	return t.entity, t.valid
}

// Set caches e as the current target.
func (t *Target) Set(e ecs.Entity) {
	t.entity = e
	t.valid = true
}

// Clear drops the cached target.
func (t *Target) Clear() {
	t.entity = ecs.Entity{}
	t.valid = false
}
