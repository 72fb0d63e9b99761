// internal/rules/dispatch.go
package rules

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/charmkar/workflow/internal/types"
)

/*
 * Action dispatch.
 *
 * Executes a fired rule's action list strictly in order against a registry
 * of handlers keyed by action kind. Failure isolation is per action: one
 * handler error is logged with the owning rule id and action kind, then
 * discarded, so sibling actions and sibling rules still run, and the record
 * write that produced the event is never blocked.
 *
 * The registered handler set is explicit and enumerable. An action kind with
 * no handler - send_email, update_record and create_related_record are
 * declared in the rule schema but have no runtime executor - is reported as
 * a configuration gap, not silently dropped.
 */

// ActionContext carries the event-scoped inputs an action executes against.
type ActionContext struct {
	ModuleID string
	Record   types.Record
}

// ActionHandler executes one kind of action.
type ActionHandler interface {
	// Kind returns the action kind this handler serves.
	Kind() types.ActionKind
	// Execute performs the action's effect. Errors are caught and logged by
	// the dispatcher; they never propagate past the action boundary.
	Execute(ctx context.Context, action types.Action, actx ActionContext) error
}

// Dispatcher routes actions to registered handlers with per-action failure
// isolation.
type Dispatcher struct {
	handlers map[types.ActionKind]ActionHandler
	logger   *slog.Logger
}

// NewDispatcher builds a dispatcher over the given handlers. A later handler
// for the same kind replaces an earlier one.
func NewDispatcher(logger *slog.Logger, handlers ...ActionHandler) *Dispatcher {
	m := make(map[types.ActionKind]ActionHandler, len(handlers))
	for _, h := range handlers {
		m[h.Kind()] = h
	}
	return &Dispatcher{handlers: m, logger: logger}
}

// Kinds returns the sorted set of action kinds with a registered handler.
func (d *Dispatcher) Kinds() []types.ActionKind {
	kinds := make([]types.ActionKind, 0, len(d.handlers))
	for k := range d.handlers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Run executes a fired rule's actions in list order. Each action's failure
// is logged and swallowed; Run itself never fails.
func (d *Dispatcher) Run(ctx context.Context, rule types.WorkflowRule, moduleID string, record types.Record) {
	actx := ActionContext{ModuleID: moduleID, Record: record}

	for _, action := range rule.Actions {
		handler, ok := d.handlers[action.Kind]
		if !ok {
			d.logger.Warn("skipping action without runtime handler",
				"rule_id", rule.ID,
				"action_id", action.ID,
				"action_kind", action.Kind,
				"error", types.ErrNoHandler)
			continue
		}

		if err := handler.Execute(ctx, action, actx); err != nil {
			d.logger.Error("workflow action failed",
				"rule_id", rule.ID,
				"action_id", action.ID,
				"action_kind", action.Kind,
				"error", err)
		}
	}
}

// configString reads a string parameter from an action's config bag.
// Missing or non-string values read as "".
func configString(cfg map[string]any, key string) string {
	if s, ok := cfg[key].(string); ok {
		return s
	}
	return ""
}

// configStringList reads a list parameter from an action's config bag.
// Accepts a native list or a comma-separated string, split and trimmed.
func configStringList(cfg map[string]any, key string) []string {
	switch v := cfg[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	default:
		return nil
	}
}
