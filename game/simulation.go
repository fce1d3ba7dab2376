package game

import (
	"errors"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/predprey/brain"
	"github.com/pthm-cable/predprey/systems"
	"github.com/pthm-cable/predprey/telemetry"
)

// Step runs one tick with the given frame delta.
//
// Phase order: hunger (fixed clock), sensors, scoring, thinking, dispatch,
// leaf actions, collect, cleanup, telemetry. Structural changes are queued
// during the tick and applied in the cleanup phase.
func (g *Game) Step(frameDT float32) {
	dt, fixedSteps := g.clock.Advance(frameDT)
	g.collector.AdvanceTime(dt)

	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseHunger)
	g.hunger.Update(fixedSteps)

	g.perfCollector.StartPhase(telemetry.PhaseSensors)
	g.sensors.Update()

	g.perfCollector.StartPhase(telemetry.PhaseScoring)
	g.think.Score(g.arena)

	g.perfCollector.StartPhase(telemetry.PhaseThinking)
	g.think.Decide(g.arena, g.onDecision)

	g.perfCollector.StartPhase(telemetry.PhaseDispatch)
	g.arena.Dispatch()

	g.perfCollector.StartPhase(telemetry.PhaseActions)
	g.lastActions = g.actions.Update(g.arena, dt)
	g.recordActions(g.lastActions)

	g.perfCollector.StartPhase(telemetry.PhaseCollect)
	g.arena.Collect()

	g.perfCollector.StartPhase(telemetry.PhaseCleanup)
	g.cleanupDepleted()

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.sampleHunger()
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// onDecision records a thinker decision.
func (g *Game) onDecision(actor ecs.Entity, th *brain.Thinker, d brain.Decision) {
	g.collector.RecordDecision(d)
	if !d.Activated && !d.Cancelled && !d.Retired {
		return
	}

	action := g.actionLabel(th.Spec(), d.Choice)
	slog.Debug("decision",
		"tick", g.tick,
		"actor", actor,
		"choice", action,
		"activated", d.Activated,
		"cancelled", d.Cancelled,
		"retired", d.Retired,
		"outcome", d.RetiredState,
	)

	if g.outputManager != nil {
		g.pendingEvents = append(g.pendingEvents, telemetry.DecisionEvents(g.tick, actor, d, g.decisionLabels(th, d))...)
	}
}

// decisionLabels names the actions a decision touched. A cancelled action
// is still the thinker's active one until it is retired.
func (g *Game) decisionLabels(th *brain.Thinker, d brain.Decision) telemetry.DecisionLabels {
	labels := telemetry.DecisionLabels{
		Retired: g.actionLabel(th.Spec(), d.RetiredChoice),
		Chosen:  g.actionLabel(th.Spec(), d.Choice),
	}
	if d.Cancelled {
		if _, choice, ok := th.Active(); ok {
			labels.Cancelled = g.actionLabel(th.Spec(), choice)
		}
	}
	return labels
}

func (g *Game) actionLabel(spec *brain.ThinkerSpec, choice int) string {
	if spec == nil {
		return ""
	}
	a, ok := spec.ActionFor(choice)
	if !ok {
		return ""
	}
	return a.String()
}

// recordActions feeds leaf action results into the collector.
func (g *Game) recordActions(ev systems.ActionEvents) {
	g.collector.RecordActions(ev.Pursued, ev.Eaten, ev.Rested, ev.PointsEaten)
	for _, err := range ev.Errs {
		if errors.Is(err, systems.ErrMissingTarget) {
			g.collector.RecordMissingTarget()
		}
	}
}

// cleanupDepleted removes prey whose points are used up.
func (g *Game) cleanupDepleted() {
	if g.outputManager != nil {
		query := g.preyFilter.Query()
		for query.Next() {
			_, prey := query.Get()
			if prey.Depleted() {
				g.pendingEvents = append(g.pendingEvents, telemetry.NewPreyDestroyedEvent(g.tick, query.Entity()))
			}
		}
	}

	g.cleanup.Update(&g.queue)
	if removed := g.queue.Apply(g.world); removed > 0 {
		g.collector.RecordPreyDestroyed(removed)
		slog.Debug("prey removed", "tick", g.tick, "count", removed, "remaining", g.PreyCount())
	}
}
