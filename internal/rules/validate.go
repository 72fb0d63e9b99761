// internal/rules/validate.go
package rules

import (
	"fmt"

	"github.com/charmkar/workflow/internal/types"
)

/*
 * Load-time rule validation.
 *
 * Moves error detection to the moment a rule is read from storage rather
 * than evaluation time: a rule that references an operator outside the
 * catalogue, omits a required operand, or carries an unknown action kind is
 * rejected (and skipped by the store) instead of silently failing conditions
 * one by one in production.
 *
 * Declared-but-unhandled action kinds (send_email, update_record,
 * create_related_record) pass validation: they are legitimate rule content,
 * and the dispatcher reports the missing handler as a configuration gap.
 */

// ValidateRule checks a rule's structural integrity. Returns nil for a rule
// the engine can evaluate; otherwise an error wrapping types.ErrInvalidRule.
func ValidateRule(rule types.WorkflowRule) error {
	if rule.ID == "" {
		return fmt.Errorf("%w: missing rule id", types.ErrInvalidRule)
	}
	if rule.ModuleID == "" {
		return fmt.Errorf("%w: rule %s has no module id", types.ErrInvalidRule, rule.ID)
	}

	switch rule.Trigger {
	case types.TriggerOnCreate, types.TriggerOnUpsert, types.TriggerInterval:
	default:
		return fmt.Errorf("%w: rule %s has unknown trigger type %q", types.ErrInvalidRule, rule.ID, rule.Trigger)
	}

	for _, cond := range rule.ConditionsAll {
		if err := validateCondition(cond); err != nil {
			return fmt.Errorf("rule %s: %w", rule.ID, err)
		}
	}
	for _, cond := range rule.ConditionsAny {
		if err := validateCondition(cond); err != nil {
			return fmt.Errorf("rule %s: %w", rule.ID, err)
		}
	}

	for _, action := range rule.Actions {
		switch action.Kind {
		case types.ActionSendNote, types.ActionSendSMS, types.ActionSendEmail,
			types.ActionUpdateRecord, types.ActionCreateRelatedRecord:
		default:
			return fmt.Errorf("%w: rule %s action %s has kind %q", types.ErrUnknownActionKind, rule.ID, action.ID, action.Kind)
		}
	}

	return nil
}

func validateCondition(cond types.Condition) error {
	if cond.Field == "" {
		return fmt.Errorf("%w: condition has no field", types.ErrInvalidRule)
	}
	spec, ok := Catalog[cond.Operator]
	if !ok {
		return fmt.Errorf("%w: %q", types.ErrUnknownOperator, cond.Operator)
	}
	if spec.NeedsOperand && cond.Value == nil {
		return fmt.Errorf("%w: operator %q on field %q", types.ErrMissingOperand, cond.Operator, cond.Field)
	}
	return nil
}
