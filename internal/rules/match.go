// internal/rules/match.go
package rules

import "github.com/charmkar/workflow/internal/types"

/*
 * Rule matching.
 *
 * A rule is a candidate for an event when it is scoped to the event's module
 * and its trigger class is compatible with the event kind: creation events
 * match on_create and on_upsert rules, update events match on_upsert only.
 * Interval rules never match the event path; they wait on a runner that this
 * core does not provide.
 *
 * The verdict combines both condition groups: every ALL condition must hold
 * and, when the ANY group is non-empty, at least one of its conditions must
 * hold. An empty ANY group is an optional OR gate - it never blocks a rule.
 */

// TriggersForEvent returns the trigger classes compatible with an event kind.
func TriggersForEvent(kind types.EventKind) []types.TriggerType {
	switch kind {
	case types.EventCreate:
		return []types.TriggerType{types.TriggerOnCreate, types.TriggerOnUpsert}
	case types.EventUpsert:
		return []types.TriggerType{types.TriggerOnUpsert}
	default:
		return nil
	}
}

// TriggerMatches reports whether a rule's trigger class accepts the event kind.
func TriggerMatches(trigger types.TriggerType, kind types.EventKind) bool {
	for _, t := range TriggersForEvent(kind) {
		if t == trigger {
			return true
		}
	}
	return false
}

// RuleApplies evaluates a rule's condition groups against an event.
// Trigger and module scoping are assumed to have been applied at the fetch
// boundary; this is the per-rule boolean verdict.
func RuleApplies(rule types.WorkflowRule, ev types.Event) bool {
	for _, cond := range rule.ConditionsAll {
		if !EvaluateCondition(cond, ev.Current, ev.Previous) {
			return false
		}
	}

	if len(rule.ConditionsAny) == 0 {
		return true
	}
	for _, cond := range rule.ConditionsAny {
		if EvaluateCondition(cond, ev.Current, ev.Previous) {
			return true
		}
	}
	return false
}
