package brain

import "github.com/mlange-42/ark/ecs"

// ScorerID addresses a scorer node in an Arena.
type ScorerID int32

// ActionID addresses an action instance in an Arena.
type ActionID int32

// NoAction marks the absence of an action instance.
const NoAction ActionID = -1

type scorerNode struct {
	kind      ScorerKind
	value     float32
	radius    float32
	threshold float32
	children  []ScorerID
	score     Score
	live      bool
}

// ActionInstance is one node of an instantiated action tree.
// World systems read Kind and Actor and drive State for leaf kinds.
type ActionInstance struct {
	Kind  ActionKind
	Actor ecs.Entity
	State ActionState

	parent   ActionID
	children []ActionID
	cursor   int // current child of a Steps composite
	live     bool
}

// Parent returns the enclosing composite, or NoAction for a root.
func (a *ActionInstance) Parent() ActionID {
	return a.parent
}

// Children returns the instance's child IDs. The slice must not be modified.
func (a *ActionInstance) Children() []ActionID {
	return a.children
}

// Arena owns scorer nodes and action instances. Instances are stored in
// flat slices and recycled through free lists, so IDs stay small and
// no per-tick allocation happens once the arena has warmed up.
type Arena struct {
	scorers     []scorerNode
	freeScorers []ScorerID

	actions     []ActionInstance
	freeActions []ActionID
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// NewScorer instantiates a scorer tree and returns its root.
func (a *Arena) NewScorer(spec ScorerSpec) ScorerID {
	id := a.allocScorer()
	n := &a.scorers[id]
	n.kind = spec.Kind
	n.value = spec.Value
	n.radius = spec.Radius
	n.threshold = spec.Threshold

	children := make([]ScorerID, 0, len(spec.Children))
	for _, c := range spec.Children {
		children = append(children, a.NewScorer(c))
	}
	// re-take the pointer, the recursive calls may have grown the slice
	a.scorers[id].children = children
	return id
}

func (a *Arena) allocScorer() ScorerID {
	if n := len(a.freeScorers); n > 0 {
		id := a.freeScorers[n-1]
		a.freeScorers = a.freeScorers[:n-1]
		a.scorers[id] = scorerNode{live: true}
		return id
	}
	a.scorers = append(a.scorers, scorerNode{live: true})
	return ScorerID(len(a.scorers) - 1)
}

// Evaluate recomputes the scorer tree rooted at id, children first, and
// returns the root's score. Every node's score is stored for inspection.
func (a *Arena) Evaluate(id ScorerID, s Senses) float32 {
	n := &a.scorers[id]
	if !n.live {
		return 0
	}

	var v float32
	switch n.kind {
	case ScorerAllOrNothing, ScorerSum:
		scores := make([]float32, len(n.children))
		for i, c := range n.children {
			scores[i] = a.Evaluate(c, s)
		}
		if n.kind == ScorerAllOrNothing {
			v = AllOrNothingScore(n.threshold, scores)
		} else {
			v = SumScore(n.threshold, scores)
		}
	default:
		v = leafScore(n.kind, n.value, n.radius, s)
	}

	n.score.Set(v)
	return n.score.Get()
}

// Score returns the last evaluated score of a node.
func (a *Arena) Score(id ScorerID) float32 {
	return a.scorers[id].score.Get()
}

// FreeScorer releases a scorer tree.
func (a *Arena) FreeScorer(id ScorerID) {
	n := &a.scorers[id]
	if !n.live {
		return
	}
	for _, c := range n.children {
		a.FreeScorer(c)
	}
	a.scorers[id] = scorerNode{}
	a.freeScorers = append(a.freeScorers, id)
}

// NewAction instantiates an action tree for actor. All nodes start in Init.
func (a *Arena) NewAction(spec ActionSpec, actor ecs.Entity) ActionID {
	return a.newAction(spec, actor, NoAction)
}

func (a *Arena) newAction(spec ActionSpec, actor ecs.Entity, parent ActionID) ActionID {
	id := a.allocAction()
	inst := &a.actions[id]
	inst.Kind = spec.Kind
	inst.Actor = actor
	inst.parent = parent

	if !spec.Kind.Composite() {
		return id
	}
	children := make([]ActionID, 0, len(spec.Children))
	for _, c := range spec.Children {
		children = append(children, a.newAction(c, actor, id))
	}
	a.actions[id].children = children
	return id
}

func (a *Arena) allocAction() ActionID {
	if n := len(a.freeActions); n > 0 {
		id := a.freeActions[n-1]
		a.freeActions = a.freeActions[:n-1]
		a.actions[id] = ActionInstance{parent: NoAction, live: true}
		return id
	}
	a.actions = append(a.actions, ActionInstance{parent: NoAction, live: true})
	return ActionID(len(a.actions) - 1)
}

// Action returns the instance for id, or nil if id is not live.
func (a *Arena) Action(id ActionID) *ActionInstance {
	if id < 0 || int(id) >= len(a.actions) || !a.actions[id].live {
		return nil
	}
	return &a.actions[id]
}

// FreeAction releases an action tree.
func (a *Arena) FreeAction(id ActionID) {
	inst := a.Action(id)
	if inst == nil {
		return
	}
	for _, c := range inst.children {
		a.FreeAction(c)
	}
	a.actions[id] = ActionInstance{parent: NoAction}
	a.freeActions = append(a.freeActions, id)
}

// Each calls fn for every live action instance.
func (a *Arena) Each(fn func(id ActionID, inst *ActionInstance)) {
	for i := range a.actions {
		if a.actions[i].live {
			fn(ActionID(i), &a.actions[i])
		}
	}
}

// LiveActions returns the number of live action instances.
func (a *Arena) LiveActions() int {
	return len(a.actions) - len(a.freeActions)
}

// LiveScorers returns the number of live scorer nodes.
func (a *Arena) LiveScorers() int {
	return len(a.scorers) - len(a.freeScorers)
}

// Dispatch propagates requests and cancellations from composites down to
// their children. Call once per tick, before world systems run leaves.
func (a *Arena) Dispatch() {
	for i := range a.actions {
		if a.actions[i].live && a.actions[i].parent == NoAction {
			a.dispatch(ActionID(i))
		}
	}
}

func (a *Arena) dispatch(id ActionID) {
	inst := &a.actions[id]
	switch inst.Kind {
	case ActionConcurrently:
		switch inst.State {
		case Requested:
			if len(inst.children) == 0 {
				inst.State = Success
				return
			}
			for _, c := range inst.children {
				a.actions[c].State = Requested
			}
			inst.State = Executing
		case Cancelled:
			for _, c := range inst.children {
				a.cancel(c)
			}
		}
	case ActionSteps:
		switch inst.State {
		case Requested:
			if len(inst.children) == 0 {
				inst.State = Success
				return
			}
			inst.cursor = 0
			a.actions[inst.children[0]].State = Requested
			inst.State = Executing
		case Cancelled:
			for _, c := range inst.children {
				a.cancel(c)
			}
		}
	default:
		return
	}

	for _, c := range inst.children {
		a.dispatch(c)
	}
}

// cancel withdraws a child. Children that never started fail immediately.
func (a *Arena) cancel(id ActionID) {
	c := &a.actions[id]
	switch {
	case c.State.Running():
		c.State = Cancelled
	case c.State == Init:
		c.State = Failure
	}
}

// Collect folds child outcomes back into their composites. Call once per
// tick, after world systems ran leaves.
func (a *Arena) Collect() {
	for i := range a.actions {
		if a.actions[i].live && a.actions[i].parent == NoAction {
			a.collect(ActionID(i))
		}
	}
}

func (a *Arena) collect(id ActionID) {
	inst := &a.actions[id]
	if !inst.Kind.Composite() {
		return
	}
	for _, c := range inst.children {
		a.collect(c)
	}

	switch inst.Kind {
	case ActionConcurrently:
		a.collectConcurrently(inst)
	case ActionSteps:
		a.collectSteps(inst)
	}
}

func (a *Arena) collectConcurrently(inst *ActionInstance) {
	if inst.State != Executing && inst.State != Cancelled {
		return
	}
	done, failed := true, false
	for _, c := range inst.children {
		st := a.actions[c].State
		if !st.Terminal() {
			done = false
		}
		if st == Failure {
			failed = true
		}
	}

	if !done {
		if failed && inst.State == Executing {
			for _, c := range inst.children {
				a.cancel(c)
			}
		}
		return
	}
	if failed || inst.State == Cancelled {
		inst.State = Failure
		return
	}
	inst.State = Success
}

func (a *Arena) collectSteps(inst *ActionInstance) {
	if inst.State != Executing && inst.State != Cancelled {
		return
	}
	if inst.State == Cancelled {
		if len(inst.children) == 0 {
			inst.State = Failure
			return
		}
		if cur := a.actions[inst.children[inst.cursor]].State; cur.Terminal() || cur == Init {
			inst.State = Failure
		}
		return
	}
	cur := &a.actions[inst.children[inst.cursor]]

	switch cur.State {
	case Failure:
		inst.State = Failure
	case Success:
		inst.cursor++
		if inst.cursor >= len(inst.children) {
			inst.State = Success
			return
		}
		a.actions[inst.children[inst.cursor]].State = Requested
	}
}
