package game

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/predprey/components"
)

// EntityView is a read-only copy of one entity for display.
type EntityView struct {
	Entity ecs.Entity
	Kind   components.Kind
	Pos    r3.Vec

	// Predator only
	Hunger float32
	Action string
	State  string
	Scores []float32

	// Prey only
	Points float32
}

// Snapshot copies every predator and prey into views, predators first.
func (g *Game) Snapshot() []EntityView {
	var views []EntityView

	pq := g.predFilter.Query()
	for pq.Next() {
		pos, hunger, th, _ := pq.Get()
		v := EntityView{
			Entity: pq.Entity(),
			Kind:   components.KindPredator,
			Pos:    pos.Vec,
			Hunger: hunger.Get(),
			Scores: append([]float32(nil), th.Scores()...),
		}
		if id, choice, ok := th.Active(); ok {
			v.Action = g.actionLabel(th.Spec(), choice)
			if inst := g.arena.Action(id); inst != nil {
				v.State = inst.State.String()
			}
		}
		views = append(views, v)
	}

	q := g.preyFilter.Query()
	for q.Next() {
		pos, prey := q.Get()
		views = append(views, EntityView{
			Entity: q.Entity(),
			Kind:   components.KindPrey,
			Pos:    pos.Vec,
			Points: prey.Points,
		})
	}
	return views
}
