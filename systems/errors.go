package systems

import "errors"

var (
	// ErrMissingTarget is reported when an action's target no longer exists.
	ErrMissingTarget = errors.New("target missing")
	// ErrMissingAttribute is reported when an actor lacks a component an action needs.
	ErrMissingAttribute = errors.New("actor attribute missing")
	// ErrTargetDepleted is reported when eating a prey that has no points left.
	ErrTargetDepleted = errors.New("target depleted")
)
