package brain

import "github.com/mlange-42/ark/ecs"

// Choice indices reported by Decide besides the positions in ThinkerSpec.Choices.
const (
	NoChoice       = -1 // nothing qualified and there is no fallback
	FallbackChoice = -2 // the Otherwise action was chosen
)

// Choice pairs a scorer with the action it votes for.
type Choice struct {
	Scorer ScorerSpec
	Action ActionSpec
}

// ThinkerSpec is an immutable decision tree shared by every thinker built from it.
type ThinkerSpec struct {
	Picker   Picker
	Choices  []Choice
	Fallback *ActionSpec
}

// NewThinkerSpec starts a decision tree that picks with p.
func NewThinkerSpec(p Picker) *ThinkerSpec {
	return &ThinkerSpec{Picker: p}
}

// When appends a choice. Choices are considered in the order they are added.
func (s *ThinkerSpec) When(scorer ScorerSpec, action ActionSpec) *ThinkerSpec {
	s.Choices = append(s.Choices, Choice{Scorer: scorer, Action: action})
	return s
}

// Otherwise sets the action chosen when no choice qualifies.
func (s *ThinkerSpec) Otherwise(action ActionSpec) *ThinkerSpec {
	s.Fallback = &action
	return s
}

// ActionFor returns the action template for a choice index, as reported by Decide.
func (s *ThinkerSpec) ActionFor(choice int) (ActionSpec, bool) {
	switch {
	case choice == FallbackChoice && s.Fallback != nil:
		return *s.Fallback, true
	case choice >= 0 && choice < len(s.Choices):
		return s.Choices[choice].Action, true
	}
	return ActionSpec{}, false
}

// Thinker is the per-actor decision component.
// It keeps at most one non-terminal action tree alive at a time.
type Thinker struct {
	spec    *ThinkerSpec
	scorers []ScorerID
	scores  []float32
	active  ActionID
	choice  int
}

// Decision reports what a Decide call changed.
type Decision struct {
	Choice        int         // picked choice, NoChoice or FallbackChoice
	Retired       bool        // a terminal action was released
	RetiredChoice int         // choice the retired action came from
	RetiredState  ActionState // outcome of the retired action
	Activated     bool        // a new action was requested
	Cancelled     bool        // the active action was withdrawn in favor of Choice
}

// NewThinker instantiates the scorers of spec in arena.
// A nil spec yields an inert thinker that never acts.
func NewThinker(arena *Arena, spec *ThinkerSpec) Thinker {
	t := Thinker{spec: spec, active: NoAction, choice: NoChoice}
	if spec == nil {
		return t
	}
	t.scorers = make([]ScorerID, len(spec.Choices))
	for i, c := range spec.Choices {
		t.scorers[i] = arena.NewScorer(c.Scorer)
	}
	t.scores = make([]float32, len(spec.Choices))
	return t
}

// Spec returns the decision tree the thinker was built from.
func (t *Thinker) Spec() *ThinkerSpec {
	return t.spec
}

// Evaluate refreshes every choice score from senses.
func (t *Thinker) Evaluate(arena *Arena, senses Senses) {
	for i, id := range t.scorers {
		t.scores[i] = arena.Evaluate(id, senses)
	}
}

// Scores returns the scores from the last Evaluate, in choice order.
func (t *Thinker) Scores() []float32 {
	return t.scores
}

// Active returns the running action tree and the choice it came from.
func (t *Thinker) Active() (ActionID, int, bool) {
	return t.active, t.choice, t.active != NoAction
}

// Decide picks a choice and reconciles it with the active action.
//
// A terminal action is retired first. When nothing is picked the current
// action keeps running. When a different choice wins, the current action
// is cancelled and the new one is requested on a later call, once the
// cancelled tree has reached a terminal state.
func (t *Thinker) Decide(arena *Arena, actor ecs.Entity) Decision {
	d := Decision{Choice: NoChoice, RetiredChoice: NoChoice}
	if t.spec == nil {
		return d
	}

	if inst := arena.Action(t.active); inst != nil && inst.State.Terminal() {
		d.Retired = true
		d.RetiredState = inst.State
		d.RetiredChoice = t.choice
		arena.FreeAction(t.active)
		t.active, t.choice = NoAction, NoChoice
	}

	d.Choice = t.pick()
	if d.Choice == NoChoice {
		return d
	}

	inst := arena.Action(t.active)
	switch {
	case inst == nil:
		t.activate(arena, actor, d.Choice)
		d.Activated = true
	case d.Choice != t.choice && inst.State.Running():
		inst.State = Cancelled
		d.Cancelled = true
	}
	return d
}

func (t *Thinker) pick() int {
	if t.spec.Picker != nil {
		if i, ok := t.spec.Picker.Pick(t.scores); ok {
			return i
		}
	}
	if t.spec.Fallback != nil {
		return FallbackChoice
	}
	return NoChoice
}

func (t *Thinker) activate(arena *Arena, actor ecs.Entity, choice int) {
	spec, ok := t.spec.ActionFor(choice)
	if !ok {
		return
	}
	id := arena.NewAction(spec, actor)
	arena.Action(id).State = Requested
	t.active, t.choice = id, choice
}

// Release frees every arena resource held by the thinker.
func (t *Thinker) Release(arena *Arena) {
	arena.FreeAction(t.active)
	for _, id := range t.scorers {
		arena.FreeScorer(id)
	}
	t.active, t.choice = NoAction, NoChoice
	t.scorers = nil
	t.scores = nil
}
