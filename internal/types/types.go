// Package types provides domain models shared across workflow engine components.
//
// The engine is schema-agnostic: records from every ERP module flow through it
// as untyped field maps, already coerced per each module's own field schema by
// the outer application. Types here are wire-format agnostic; JSON decoding of
// stored rules happens at the store boundary.
package types

import "strconv"

// Record is a single module record as a field-key to value mapping.
// Values are whatever the outer application's module schema produced:
// strings, float64, bool, []any, nested maps, or nil.
type Record map[string]any

// ID returns the record's "id" field as a string, or "" when absent.
// Numeric ids arrive as float64 through JSON decoding and are rendered
// without an exponent.
func (r Record) ID() string {
	switch v := r["id"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// TriggerType classifies the events a rule is eligible to respond to.
type TriggerType string

const (
	// TriggerOnCreate fires only on record creation events.
	TriggerOnCreate TriggerType = "on_create"
	// TriggerOnUpsert fires on both creation and update events.
	TriggerOnUpsert TriggerType = "on_upsert"
	// TriggerInterval is a declared cadence trigger. No runner executes it;
	// rules carrying it are stored and validated but never matched by the
	// event path.
	TriggerInterval TriggerType = "interval"
)

// EventKind is the class of a record-write event.
type EventKind string

const (
	EventCreate EventKind = "create"
	EventUpsert EventKind = "upsert"
)

// Operator identifies one entry of the condition operator catalogue.
type Operator string

const (
	OpEq          Operator = "eq"
	OpNeq         Operator = "neq"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpStartsWith  Operator = "starts_with"
	OpEndsWith    Operator = "ends_with"
	OpGt          Operator = "gt"
	OpGte         Operator = "gte"
	OpLt          Operator = "lt"
	OpLte         Operator = "lte"
	OpIn          Operator = "in"
	OpNotIn       Operator = "not_in"
	OpIsTrue      Operator = "is_true"
	OpIsFalse     Operator = "is_false"
	OpIsNull      Operator = "is_null"
	OpNotNull     Operator = "not_null"
	OpChanged     Operator = "changed"
	OpChangedFrom Operator = "changed_from"
	OpChangedTo   Operator = "changed_to"

	OpIsToday     Operator = "is_today"
	OpIsYesterday Operator = "is_yesterday"
	OpIsTomorrow  Operator = "is_tomorrow"

	OpDaysPassedGt    Operator = "days_passed_gt"
	OpDaysPassedLt    Operator = "days_passed_lt"
	OpDaysRemainingGt Operator = "days_remaining_gt"
	OpDaysRemainingLt Operator = "days_remaining_lt"

	OpHoursPassedGt    Operator = "hours_passed_gt"
	OpHoursPassedLt    Operator = "hours_passed_lt"
	OpHoursRemainingGt Operator = "hours_remaining_gt"
	OpHoursRemainingLt Operator = "hours_remaining_lt"
)

// ActionKind identifies one action type in a rule's action list.
type ActionKind string

const (
	ActionSendNote ActionKind = "send_note"
	ActionSendSMS  ActionKind = "send_sms"

	// Declared in the rule schema and editable upstream, but carrying no
	// runtime handler. Dispatching one logs a configuration gap and moves on.
	ActionSendEmail           ActionKind = "send_email"
	ActionUpdateRecord        ActionKind = "update_record"
	ActionCreateRelatedRecord ActionKind = "create_related_record"
)

// Condition is one atomic test against the record pair.
type Condition struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value,omitempty"` // operand; absent for operators that take none
}

// Action is one atomic effect in a rule's ordered action list.
type Action struct {
	ID     ActionID       `json:"id"`
	Kind   ActionKind     `json:"type"`
	Config map[string]any `json:"config"` // kind-dependent parameter bag
}

// WorkflowRule is a user-authored automation definition. Read-only to the
// engine; lifecycle is owned by the rule-editing surface.
type WorkflowRule struct {
	ID       RuleID      `json:"id"`
	ModuleID string      `json:"module_id"`
	Trigger  TriggerType `json:"trigger_type"`
	// ConditionsAll must all hold (AND). Empty means vacuously true.
	ConditionsAll []Condition `json:"conditions_all"`
	// ConditionsAny needs at least one to hold (OR). Empty means vacuously
	// true, so an absent ANY-group never blocks a rule.
	ConditionsAny []Condition `json:"conditions_any"`
	Actions       []Action    `json:"actions"`
	IsActive      bool        `json:"is_active"`
}

// Event is the transient engine input built by the record-write path.
// Never persisted.
type Event struct {
	ModuleID string
	Kind     EventKind
	Current  Record
	Previous Record // nil for creation events
}
