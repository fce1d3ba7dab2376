package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/predprey/brain"
	"github.com/pthm-cable/predprey/components"
)

type fixture struct {
	world    *ecs.World
	predMap  *ecs.Map4[components.Position, components.Hunger, components.Target, components.Perception]
	preyMap  *ecs.Map2[components.Position, components.Prey]
	posOf    *ecs.Map[components.Position]
	pointsOf *ecs.Map[components.Prey]
	hungerOf *ecs.Map[components.Hunger]
	targetOf *ecs.Map[components.Target]
	percOf   *ecs.Map[components.Perception]
}

func newFixture() *fixture {
	w := ecs.NewWorld()
	return &fixture{
		world:    w,
		predMap:  ecs.NewMap4[components.Position, components.Hunger, components.Target, components.Perception](w),
		preyMap:  ecs.NewMap2[components.Position, components.Prey](w),
		posOf:    ecs.NewMap[components.Position](w),
		pointsOf: ecs.NewMap[components.Prey](w),
		hungerOf: ecs.NewMap[components.Hunger](w),
		targetOf: ecs.NewMap[components.Target](w),
		percOf:   ecs.NewMap[components.Perception](w),
	}
}

func (f *fixture) predator(x, y float64, hunger float32) ecs.Entity {
	pos := components.NewPosition(x, y, 0)
	h := components.NewHunger(hunger)
	return f.predMap.NewEntity(&pos, &h, &components.Target{}, &components.Perception{})
}

func (f *fixture) prey(x, y float64, points float32) ecs.Entity {
	pos := components.NewPosition(x, y, 0)
	return f.preyMap.NewEntity(&pos, &components.Prey{Points: points})
}

// leaf creates a single requested leaf action for actor.
func leaf(arena *brain.Arena, spec brain.ActionSpec, actor ecs.Entity, state brain.ActionState) brain.ActionID {
	id := arena.NewAction(spec, actor)
	arena.Action(id).State = state
	return id
}

func TestSensorPicksNearestPrey(t *testing.T) {
	f := newFixture()
	pred := f.predator(0, 0, 1)
	f.prey(3, 0, 0.9)
	near := f.prey(1, 1, 0.9)

	s := NewSensorSystem(f.world)
	s.Update()

	got, ok := f.targetOf.Get(pred).Get()
	require.True(t, ok)
	assert.Equal(t, near, got)

	perc := f.percOf.Get(pred)
	assert.True(t, perc.Found)
	assert.InDelta(t, 2.0, perc.NearestSq, 1e-9)
	assert.False(t, perc.InRange(1))
	assert.True(t, perc.InRange(1.5))
	assert.Equal(t, 2, s.PreyCount())
}

func TestSensorWithoutPrey(t *testing.T) {
	f := newFixture()
	pred := f.predator(0, 0, 1)
	prey := f.prey(1, 0, 0.9)

	s := NewSensorSystem(f.world)
	s.Update()
	_, ok := f.targetOf.Get(pred).Get()
	require.True(t, ok)

	f.world.RemoveEntity(prey)
	s.Update()

	_, ok = f.targetOf.Get(pred).Get()
	assert.False(t, ok)
	assert.False(t, f.percOf.Get(pred).Found)
	assert.False(t, Senses{Perception: *f.percOf.Get(pred)}.PreyInRange(100))
}

func TestSensorTieKeepsFirstPrey(t *testing.T) {
	f := newFixture()
	pred := f.predator(0, 0, 1)
	first := f.prey(1, 0, 0.9)
	f.prey(-1, 0, 0.9)
	f.prey(0, 1, 0.9)

	NewSensorSystem(f.world).Update()

	got, ok := f.targetOf.Get(pred).Get()
	require.True(t, ok)
	assert.Equal(t, first, got)
	assert.InDelta(t, 1.0, f.percOf.Get(pred).NearestSq, 1e-9)
}

func TestSensorIgnoresDepletedPrey(t *testing.T) {
	f := newFixture()
	pred := f.predator(0, 0, 1)
	f.prey(0.5, 0, 0)
	far := f.prey(4, 0, 0.9)

	NewSensorSystem(f.world).Update()

	got, ok := f.targetOf.Get(pred).Get()
	require.True(t, ok)
	assert.Equal(t, far, got)
}

func TestSensesAdapter(t *testing.T) {
	s := Senses{Hunger: 0.7, Perception: components.Perception{NearestSq: 0.25, Found: true}}
	assert.Equal(t, float32(0.7), s.HungerLevel())
	assert.True(t, s.PreyInRange(1))
	assert.True(t, s.PreyInRange(0.5))
	assert.False(t, s.PreyInRange(0.4))
}

func TestEatTransfersPoints(t *testing.T) {
	f := newFixture()
	pred := f.predator(0, 0, 1)
	prey := f.prey(0.5, 0, 0.9)
	NewSensorSystem(f.world).Update()

	arena := brain.NewArena()
	id := leaf(arena, brain.Eat(), pred, brain.Requested)

	ev := NewActionSystem(f.world, 10, 20).Update(arena, 0.1)

	assert.Equal(t, brain.Success, arena.Action(id).State)
	assert.InDelta(t, -1.1, f.pointsOf.Get(prey).Points, 1e-5)
	assert.Equal(t, float32(0), f.hungerOf.Get(pred).Get())
	assert.Equal(t, 1, ev.Eaten)
	assert.InDelta(t, 2.0, ev.PointsEaten, 1e-5)
}

func TestEatDepletedPreyFails(t *testing.T) {
	f := newFixture()
	pred := f.predator(0, 0, 1)
	prey := f.prey(0.5, 0, 0.9)
	NewSensorSystem(f.world).Update()
	f.pointsOf.Get(prey).Points = 0

	arena := brain.NewArena()
	id := leaf(arena, brain.Eat(), pred, brain.Requested)
	ev := NewActionSystem(f.world, 10, 20).Update(arena, 0.1)

	assert.Equal(t, brain.Failure, arena.Action(id).State)
	require.Len(t, ev.Errs, 1)
	assert.ErrorIs(t, ev.Errs[0], ErrTargetDepleted)
	assert.Equal(t, float32(1), f.hungerOf.Get(pred).Get())
}

func TestEatRemovedTargetFails(t *testing.T) {
	f := newFixture()
	pred := f.predator(0, 0, 1)
	prey := f.prey(0.5, 0, 0.9)
	NewSensorSystem(f.world).Update()
	f.world.RemoveEntity(prey)

	arena := brain.NewArena()
	id := leaf(arena, brain.Eat(), pred, brain.Requested)
	ev := NewActionSystem(f.world, 10, 20).Update(arena, 0.1)

	assert.Equal(t, brain.Failure, arena.Action(id).State)
	require.Len(t, ev.Errs, 1)
	assert.ErrorIs(t, ev.Errs[0], ErrMissingTarget)
	assert.Equal(t, 0, ev.Eaten)
	assert.Equal(t, float32(1), f.hungerOf.Get(pred).Get())
}

func TestSecondEaterOfSamePreyFails(t *testing.T) {
	f := newFixture()
	a := f.predator(0, 0, 1)
	b := f.predator(1, 0, 1)
	prey := f.prey(0.5, 0, 0.9)
	NewSensorSystem(f.world).Update()

	arena := brain.NewArena()
	first := leaf(arena, brain.Eat(), a, brain.Requested)
	second := leaf(arena, brain.Eat(), b, brain.Requested)
	ev := NewActionSystem(f.world, 10, 20).Update(arena, 0.1)

	assert.Equal(t, brain.Success, arena.Action(first).State)
	assert.Equal(t, brain.Failure, arena.Action(second).State)
	assert.InDelta(t, -1.1, f.pointsOf.Get(prey).Points, 1e-5)
	assert.Equal(t, float32(0), f.hungerOf.Get(a).Get())
	assert.Equal(t, float32(1), f.hungerOf.Get(b).Get())
	assert.Equal(t, 1, ev.Eaten)
	require.Len(t, ev.Errs, 1)
	assert.ErrorIs(t, ev.Errs[0], ErrTargetDepleted)
}

func TestPursueMovesTowardTarget(t *testing.T) {
	f := newFixture()
	pred := f.predator(0, 0, 1)
	f.prey(5, 0, 0.9)
	NewSensorSystem(f.world).Update()

	arena := brain.NewArena()
	id := leaf(arena, brain.Pursue(), pred, brain.Requested)
	ev := NewActionSystem(f.world, 10, 20).Update(arena, 0.1)

	assert.Equal(t, brain.Success, arena.Action(id).State)
	pos := f.posOf.Get(pred)
	assert.InDelta(t, 1.0, pos.X, 1e-6)
	assert.InDelta(t, 0.0, pos.Y, 1e-6)
	assert.Equal(t, 1, ev.Pursued)
}

func TestPursueCoincidentTargetStays(t *testing.T) {
	f := newFixture()
	pred := f.predator(2, 2, 1)
	f.prey(2, 2, 0.9)
	NewSensorSystem(f.world).Update()

	arena := brain.NewArena()
	id := leaf(arena, brain.Pursue(), pred, brain.Requested)
	NewActionSystem(f.world, 10, 20).Update(arena, 0.1)

	assert.Equal(t, brain.Success, arena.Action(id).State)
	pos := f.posOf.Get(pred)
	assert.Equal(t, 2.0, pos.X)
	assert.Equal(t, 2.0, pos.Y)
}

func TestPursueWithoutTargetFails(t *testing.T) {
	f := newFixture()
	pred := f.predator(0, 0, 1)

	arena := brain.NewArena()
	id := leaf(arena, brain.Pursue(), pred, brain.Requested)
	ev := NewActionSystem(f.world, 10, 20).Update(arena, 0.1)

	assert.Equal(t, brain.Failure, arena.Action(id).State)
	require.Len(t, ev.Errs, 1)
	assert.ErrorIs(t, ev.Errs[0], ErrMissingTarget)
	assert.Equal(t, 1, ev.Failed)
}

func TestPursueRemovedTargetFails(t *testing.T) {
	f := newFixture()
	pred := f.predator(0, 0, 1)
	prey := f.prey(3, 0, 0.9)
	NewSensorSystem(f.world).Update()
	f.world.RemoveEntity(prey)

	arena := brain.NewArena()
	id := leaf(arena, brain.Pursue(), pred, brain.Requested)
	ev := NewActionSystem(f.world, 10, 20).Update(arena, 0.1)

	assert.Equal(t, brain.Failure, arena.Action(id).State)
	assert.ErrorIs(t, ev.Errs[0], ErrMissingTarget)
}

func TestActionOnActorWithoutTargetComponent(t *testing.T) {
	f := newFixture()
	stranger := f.prey(0, 0, 0.9)

	arena := brain.NewArena()
	id := leaf(arena, brain.Eat(), stranger, brain.Requested)
	ev := NewActionSystem(f.world, 10, 20).Update(arena, 0.1)

	assert.Equal(t, brain.Failure, arena.Action(id).State)
	assert.ErrorIs(t, ev.Errs[0], ErrMissingAttribute)
}

func TestRestSucceeds(t *testing.T) {
	f := newFixture()
	arena := brain.NewArena()
	id := leaf(arena, brain.Rest(), f.predator(0, 0, 1), brain.Requested)

	ev := NewActionSystem(f.world, 10, 20).Update(arena, 0.1)
	assert.Equal(t, brain.Success, arena.Action(id).State)
	assert.Equal(t, 1, ev.Rested)
}

func TestLeafStatesWithoutEffect(t *testing.T) {
	tests := []struct {
		name  string
		state brain.ActionState
		want  brain.ActionState
	}{
		{"success is stable", brain.Success, brain.Success},
		{"failure is stable", brain.Failure, brain.Failure},
		{"init is ignored", brain.Init, brain.Init},
		{"executing is ignored", brain.Executing, brain.Executing},
		{"cancelled fails", brain.Cancelled, brain.Failure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			pred := f.predator(0, 0, 1)
			prey := f.prey(0.5, 0, 0.9)
			NewSensorSystem(f.world).Update()

			arena := brain.NewArena()
			id := leaf(arena, brain.Eat(), pred, tt.state)
			NewActionSystem(f.world, 10, 20).Update(arena, 0.1)

			assert.Equal(t, tt.want, arena.Action(id).State)
			assert.Equal(t, float32(0.9), f.pointsOf.Get(prey).Points)
			assert.Equal(t, float32(1), f.hungerOf.Get(pred).Get())
		})
	}
}

func TestCompositesSkippedByActionSystem(t *testing.T) {
	f := newFixture()
	pred := f.predator(0, 0, 1)
	arena := brain.NewArena()
	id := leaf(arena, brain.Concurrently(brain.Rest()), pred, brain.Requested)

	NewActionSystem(f.world, 10, 20).Update(arena, 0.1)
	assert.Equal(t, brain.Requested, arena.Action(id).State)
}

func TestHungerGrowsPerStep(t *testing.T) {
	f := newFixture()
	pred := f.predator(0, 0, 0)
	s := NewHungerSystem(f.world, 0.003)

	s.Update(3)
	assert.InDelta(t, 0.009, f.hungerOf.Get(pred).Get(), 1e-6)

	s.Update(0)
	assert.InDelta(t, 0.009, f.hungerOf.Get(pred).Get(), 1e-6)

	f.hungerOf.Get(pred).Set(0.999)
	s.Update(2)
	assert.Equal(t, float32(1), f.hungerOf.Get(pred).Get())
}

func TestCleanupRemovesDepletedPrey(t *testing.T) {
	f := newFixture()
	eaten := f.prey(0, 0, -1.1)
	fresh := f.prey(1, 0, 0.9)

	var q CommandQueue
	n := NewCleanupSystem(f.world).Update(&q)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, q.Len())
	assert.True(t, f.world.Alive(eaten), "removal waits for Apply")

	assert.Equal(t, 1, q.Apply(f.world))
	assert.False(t, f.world.Alive(eaten))
	assert.True(t, f.world.Alive(fresh))
	assert.Equal(t, 0, q.Len())
}

func TestCommandQueueDeduplicates(t *testing.T) {
	f := newFixture()
	e := f.prey(0, 0, 0)

	var q CommandQueue
	q.Destroy(e)
	q.Destroy(e)
	ran := false
	q.Defer(func(w *ecs.World) { ran = w.Alive(e) })

	assert.Equal(t, 1, q.Apply(f.world))
	assert.True(t, ran, "deferred functions run before removals")
	assert.Equal(t, 0, q.Apply(f.world))
}
