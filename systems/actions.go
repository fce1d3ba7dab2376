package systems

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/predprey/brain"
	"github.com/pthm-cable/predprey/components"
)

// ActionEvents counts what the leaf actions did during one update.
type ActionEvents struct {
	Pursued     int
	Eaten       int
	PointsEaten float32
	Rested      int
	Cancelled   int // cancelled leaves turned into failures
	Failed      int // leaves that could not run
	Errs        []error
}

// ActionSystem executes leaf actions against the world.
// Composites are driven by the arena and skipped here.
type ActionSystem struct {
	world     *ecs.World
	posMap    *ecs.Map[components.Position]
	hungerMap *ecs.Map[components.Hunger]
	targetMap *ecs.Map[components.Target]
	preyMap   *ecs.Map[components.Prey]

	speed   float32
	eatRate float32

	events ActionEvents
}

// NewActionSystem creates a new action system.
func NewActionSystem(w *ecs.World, speed, eatRate float32) *ActionSystem {
	return &ActionSystem{
		world:     w,
		posMap:    ecs.NewMap[components.Position](w),
		hungerMap: ecs.NewMap[components.Hunger](w),
		targetMap: ecs.NewMap[components.Target](w),
		preyMap:   ecs.NewMap[components.Prey](w),
		speed:     speed,
		eatRate:   eatRate,
	}
}

// Update runs every live leaf once. Leaves act only when Requested;
// a Cancelled leaf fails, and every other state is left untouched.
func (s *ActionSystem) Update(arena *brain.Arena, dt float32) ActionEvents {
	s.events = ActionEvents{Errs: s.events.Errs[:0]}

	arena.Each(func(id brain.ActionID, inst *brain.ActionInstance) {
		if inst.Kind.Composite() {
			return
		}
		switch inst.State {
		case brain.Cancelled:
			inst.State = brain.Failure
			s.events.Cancelled++
			return
		case brain.Requested:
		default:
			return
		}

		var err error
		switch inst.Kind {
		case brain.ActionPursue:
			err = s.pursue(inst.Actor, dt)
		case brain.ActionEat:
			err = s.eat(inst.Actor, dt)
		case brain.ActionRest:
			s.events.Rested++
		default:
			err = fmt.Errorf("unknown action kind %d", inst.Kind)
		}

		if err != nil {
			inst.State = brain.Failure
			s.events.Failed++
			s.events.Errs = append(s.events.Errs, err)
			slog.Debug("action failed", "action", inst.Kind, "id", id, "err", err)
			return
		}
		inst.State = brain.Success
	})

	return s.events
}

// target resolves the live prey the actor is aimed at.
func (s *ActionSystem) target(actor ecs.Entity, action brain.ActionKind) (ecs.Entity, error) {
	if !s.world.Alive(actor) || !s.targetMap.Has(actor) {
		return ecs.Entity{}, fmt.Errorf("%s: %w: target", action, ErrMissingAttribute)
	}
	e, ok := s.targetMap.Get(actor).Get()
	if !ok || !s.world.Alive(e) {
		return ecs.Entity{}, fmt.Errorf("%s: %w", action, ErrMissingTarget)
	}
	return e, nil
}

// pursue moves the actor toward its target at the configured speed.
func (s *ActionSystem) pursue(actor ecs.Entity, dt float32) error {
	target, err := s.target(actor, brain.ActionPursue)
	if err != nil {
		return err
	}
	if !s.posMap.Has(actor) {
		return fmt.Errorf("pursue: %w: position", ErrMissingAttribute)
	}
	if !s.posMap.Has(target) {
		return fmt.Errorf("pursue: %w: target position", ErrMissingTarget)
	}

	pos := s.posMap.Get(actor)
	to := s.posMap.Get(target)
	pos.Vec = r3.Add(pos.Vec, r3.Scale(float64(s.speed*dt), direction(pos.Vec, to.Vec)))
	s.events.Pursued++
	return nil
}

// eat transfers dt*eatRate points from the target to the actor's hunger.
func (s *ActionSystem) eat(actor ecs.Entity, dt float32) error {
	target, err := s.target(actor, brain.ActionEat)
	if err != nil {
		return err
	}
	if !s.hungerMap.Has(actor) {
		return fmt.Errorf("eat: %w: hunger", ErrMissingAttribute)
	}
	if !s.preyMap.Has(target) {
		return fmt.Errorf("eat: %w: not prey", ErrMissingTarget)
	}
	prey := s.preyMap.Get(target)
	if prey.Depleted() {
		return fmt.Errorf("eat: %w", ErrTargetDepleted)
	}

	points := dt * s.eatRate
	prey.Points -= points
	hunger := s.hungerMap.Get(actor)
	hunger.Set(hunger.Get() - points)

	s.events.Eaten++
	s.events.PointsEaten += points
	return nil
}

// direction returns the unit vector from a to b, or zero when they coincide.
func direction(a, b r3.Vec) r3.Vec {
	d := r3.Sub(b, a)
	if r3.Norm2(d) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(d)
}
