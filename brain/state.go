// Package brain implements utility-based decision making.
//
// Scorers rate how desirable a behavior is for one actor, a Picker chooses
// at most one behavior per tick, and the Thinker drives the chosen action
// through its lifecycle. Behavior trees are declared as plain value
// templates (ScorerSpec, ActionSpec) and instantiated into an Arena, where
// instances are addressed by index.
//
// Action lifecycle:
//
//	Init --activate--> Requested --execute--> Success | Failure
//	Requested | Executing --withdraw--> Cancelled --observe--> Failure
//	Success | Failure --retire--> Init (instance recycled)
package brain

// ActionState is the lifecycle state of an action instance.
type ActionState uint8

const (
	Init      ActionState = iota // allocated, not yet activated
	Requested                    // activated, not yet run
	Executing                    // running across several ticks
	Cancelled                    // withdrawn by the thinker, waiting for the action to observe it
	Success                      // completed
	Failure                      // aborted
)

// String returns the display name for an ActionState.
func (s ActionState) String() string {
	switch s {
	case Init:
		return "init"
	case Requested:
		return "requested"
	case Executing:
		return "executing"
	case Cancelled:
		return "cancelled"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state ends an activation.
func (s ActionState) Terminal() bool {
	return s == Success || s == Failure
}

// Running reports whether the action may still be cancelled.
func (s ActionState) Running() bool {
	return s == Requested || s == Executing
}

// Score is a desirability value in [0, 1].
type Score struct {
	value float32
}

// Get returns the stored score.
func (s *Score) Get() float32 {
	return s.value
}

// Set stores v clamped to [0, 1]. NaN is stored as 0.
func (s *Score) Set(v float32) {
	s.value = clampUnit(v)
}

func clampUnit(v float32) float32 {
	switch {
	case v != v:
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
