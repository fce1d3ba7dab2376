// Package telemetry provides decision tracking, window statistics and CSV output.
package telemetry

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/predprey/brain"
)

// EventType identifies telemetry events.
type EventType string

const (
	EventActivated     EventType = "activated"
	EventCancelled     EventType = "cancelled"
	EventRetired       EventType = "retired"
	EventPreyDestroyed EventType = "prey_destroyed"
)

// Event is one row of the decision log.
type Event struct {
	Tick   int32     `csv:"tick"`
	Type   EventType `csv:"type"`
	Entity uint32    `csv:"entity"`
	Action string    `csv:"action"` // template of the chosen or retired action
	State  string    `csv:"state"`  // outcome, retired events only
}

// DecisionLabels names the actions a decision touched.
type DecisionLabels struct {
	Retired   string // action that just finished
	Cancelled string // action that was withdrawn
	Chosen    string // action that was picked
}

// DecisionEvents expands a thinker decision into log rows.
func DecisionEvents(tick int32, actor ecs.Entity, d brain.Decision, labels DecisionLabels) []Event {
	var out []Event
	id := uint32(actor.ID())
	if d.Retired {
		out = append(out, Event{Tick: tick, Type: EventRetired, Entity: id, Action: labels.Retired, State: d.RetiredState.String()})
	}
	if d.Cancelled {
		out = append(out, Event{Tick: tick, Type: EventCancelled, Entity: id, Action: labels.Cancelled})
	}
	if d.Activated {
		out = append(out, Event{Tick: tick, Type: EventActivated, Entity: id, Action: labels.Chosen})
	}
	return out
}

// NewPreyDestroyedEvent creates a prey removal event.
func NewPreyDestroyedEvent(tick int32, prey ecs.Entity) Event {
	return Event{Tick: tick, Type: EventPreyDestroyed, Entity: uint32(prey.ID())}
}
