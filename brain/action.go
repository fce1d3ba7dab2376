package brain

import "strings"

// ActionKind enumerates the closed set of actions.
type ActionKind uint8

const (
	ActionRest ActionKind = iota
	ActionPursue
	ActionEat
	ActionConcurrently
	ActionSteps
)

// String returns the display name for an ActionKind.
func (k ActionKind) String() string {
	switch k {
	case ActionRest:
		return "rest"
	case ActionPursue:
		return "pursue"
	case ActionEat:
		return "eat"
	case ActionConcurrently:
		return "concurrently"
	case ActionSteps:
		return "steps"
	default:
		return "unknown"
	}
}

// Composite reports whether the kind is driven by the arena rather than a world system.
func (k ActionKind) Composite() bool {
	return k == ActionConcurrently || k == ActionSteps
}

// ActionSpec is an action template.
type ActionSpec struct {
	Kind     ActionKind
	Children []ActionSpec // composites only
}

// Pursue moves the actor toward its target.
func Pursue() ActionSpec { return ActionSpec{Kind: ActionPursue} }

// Eat consumes points from the actor's target.
func Eat() ActionSpec { return ActionSpec{Kind: ActionEat} }

// Rest does nothing and succeeds.
func Rest() ActionSpec { return ActionSpec{Kind: ActionRest} }

// Concurrently runs all children at once. It succeeds when every child
// succeeds and fails as soon as all children are done and any one failed.
func Concurrently(children ...ActionSpec) ActionSpec {
	return ActionSpec{Kind: ActionConcurrently, Children: children}
}

// Steps runs children one after another and stops at the first failure.
func Steps(children ...ActionSpec) ActionSpec {
	return ActionSpec{Kind: ActionSteps, Children: children}
}

// String renders the template, e.g. "concurrently(eat,pursue)".
func (s ActionSpec) String() string {
	if !s.Kind.Composite() {
		return s.Kind.String()
	}
	var b strings.Builder
	b.WriteString(s.Kind.String())
	b.WriteByte('(')
	for i, c := range s.Children {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(c.String())
	}
	b.WriteByte(')')
	return b.String()
}
