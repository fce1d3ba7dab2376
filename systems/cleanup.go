package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/predprey/components"
)

// CommandQueue defers structural world changes until no query is running.
type CommandQueue struct {
	destroy  []ecs.Entity
	deferred []func(*ecs.World)
}

// Destroy queues e for removal.
func (q *CommandQueue) Destroy(e ecs.Entity) {
	q.destroy = append(q.destroy, e)
}

// Defer queues fn to run against the world on Apply.
func (q *CommandQueue) Defer(fn func(*ecs.World)) {
	q.deferred = append(q.deferred, fn)
}

// Len returns the number of queued commands.
func (q *CommandQueue) Len() int {
	return len(q.destroy) + len(q.deferred)
}

// Apply runs deferred functions in order, then removes queued entities.
// Entities queued twice or already removed are skipped.
// It returns the number of entities removed.
func (q *CommandQueue) Apply(w *ecs.World) int {
	for _, fn := range q.deferred {
		fn(w)
	}
	q.deferred = q.deferred[:0]

	removed := 0
	for _, e := range q.destroy {
		if !w.Alive(e) {
			continue
		}
		w.RemoveEntity(e)
		removed++
	}
	q.destroy = q.destroy[:0]
	return removed
}

// CleanupSystem removes prey whose points are used up.
type CleanupSystem struct {
	filter ecs.Filter1[components.Prey]
}

// NewCleanupSystem creates a new cleanup system.
func NewCleanupSystem(w *ecs.World) *CleanupSystem {
	return &CleanupSystem{filter: *ecs.NewFilter1[components.Prey](w)}
}

// Update queues every depleted prey for removal and returns how many were queued.
func (s *CleanupSystem) Update(q *CommandQueue) int {
	n := 0
	query := s.filter.Query()
	for query.Next() {
		if query.Get().Depleted() {
			q.Destroy(query.Entity())
			n++
		}
	}
	return n
}
