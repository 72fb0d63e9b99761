// internal/rules/engine.go
package rules

import (
	"context"
	"log/slog"

	"github.com/charmkar/workflow/internal/types"
)

/*
 * Engine orchestration.
 *
 * RunForEvent is the sole entry point: the record-write path calls it after
 * every creation or update, synchronously and in the caller's execution
 * context. The engine holds no state between invocations - no rule cache, no
 * prior verdicts - so concurrent invocations for different records are safe
 * by construction and every run is idempotent by recomputation.
 *
 * Automation is best-effort: nothing here ever signals failure back to the
 * caller, so the triggering business write succeeds regardless of automation
 * outcome. A rule-store fetch failure is the one mode that abandons the
 * whole pass for an event; everything narrower is isolated per action.
 */

// RuleStore is the rule-definition collaborator. Implementations return only
// active rules scoped to the module and trigger classes.
type RuleStore interface {
	FetchRules(ctx context.Context, moduleID string, triggers []types.TriggerType) ([]types.WorkflowRule, error)
}

// Engine evaluates workflow rules against record-write events and dispatches
// the actions of the rules that fire.
type Engine struct {
	store      RuleStore
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// NewEngine wires the engine over its collaborators.
func NewEngine(store RuleStore, dispatcher *Dispatcher, logger *slog.Logger) *Engine {
	return &Engine{store: store, dispatcher: dispatcher, logger: logger}
}

// RunForEvent runs every matching rule for the event. Failures are logged,
// never returned: record writes are not transactional participants in
// automation.
func (e *Engine) RunForEvent(ctx context.Context, ev types.Event) {
	triggers := TriggersForEvent(ev.Kind)
	if len(triggers) == 0 {
		e.logger.Warn("ignoring event with unknown kind",
			"module_id", ev.ModuleID, "event_kind", ev.Kind)
		return
	}

	candidates, err := e.store.FetchRules(ctx, ev.ModuleID, triggers)
	if err != nil {
		e.logger.Error("abandoning automation pass, rule fetch failed",
			"module_id", ev.ModuleID, "event_kind", ev.Kind, "error", err)
		return
	}

	for _, rule := range candidates {
		// The store filters trigger classes; re-check to stay correct with
		// stores that return broader sets.
		if !TriggerMatches(rule.Trigger, ev.Kind) {
			continue
		}
		if !RuleApplies(rule, ev) {
			continue
		}

		e.logger.Info("workflow rule fired",
			"rule_id", rule.ID, "module_id", ev.ModuleID, "event_kind", ev.Kind)
		e.dispatcher.Run(ctx, rule, ev.ModuleID, ev.Current)
	}
}
