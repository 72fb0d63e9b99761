package rules

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/charmkar/workflow/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTriggersForEvent(t *testing.T) {
	create := TriggersForEvent(types.EventCreate)
	if len(create) != 2 || create[0] != types.TriggerOnCreate || create[1] != types.TriggerOnUpsert {
		t.Errorf("create triggers = %v, want [on_create on_upsert]", create)
	}

	upsert := TriggersForEvent(types.EventUpsert)
	if len(upsert) != 1 || upsert[0] != types.TriggerOnUpsert {
		t.Errorf("upsert triggers = %v, want [on_upsert]", upsert)
	}

	if TriggersForEvent(types.EventKind("bogus")) != nil {
		t.Error("unknown event kind must yield no triggers")
	}
}

func TestTriggerMatches(t *testing.T) {
	tests := []struct {
		trigger types.TriggerType
		kind    types.EventKind
		want    bool
	}{
		{types.TriggerOnCreate, types.EventCreate, true},
		{types.TriggerOnCreate, types.EventUpsert, false},
		{types.TriggerOnUpsert, types.EventCreate, true},
		{types.TriggerOnUpsert, types.EventUpsert, true},
		{types.TriggerInterval, types.EventCreate, false},
		{types.TriggerInterval, types.EventUpsert, false},
	}

	for _, tt := range tests {
		if got := TriggerMatches(tt.trigger, tt.kind); got != tt.want {
			t.Errorf("TriggerMatches(%s, %s) = %v, want %v", tt.trigger, tt.kind, got, tt.want)
		}
	}
}

func TestRuleApplies(t *testing.T) {
	ev := types.Event{
		ModuleID: "invoices",
		Kind:     types.EventCreate,
		Current:  types.Record{"status": "todo", "qty": 10.0},
	}

	tests := []struct {
		name string
		all  []types.Condition
		any  []types.Condition
		want bool
	}{
		{
			name: "no conditions fires",
			want: true,
		},
		{
			name: "all pass",
			all:  []types.Condition{cond("status", types.OpEq, "todo"), cond("qty", types.OpGt, 5)},
			want: true,
		},
		{
			name: "one all condition fails",
			all:  []types.Condition{cond("status", types.OpEq, "todo"), cond("qty", types.OpGt, 50)},
			want: false,
		},
		{
			// Empty ANY-group is an optional OR gate: it never blocks.
			name: "empty any group does not block",
			all:  []types.Condition{cond("status", types.OpEq, "todo")},
			any:  nil,
			want: true,
		},
		{
			name: "any group with one pass",
			any:  []types.Condition{cond("status", types.OpEq, "missing"), cond("qty", types.OpGt, 5)},
			want: true,
		},
		{
			name: "any group with no pass blocks",
			any:  []types.Condition{cond("status", types.OpEq, "missing"), cond("qty", types.OpGt, 50)},
			want: false,
		},
		{
			name: "all pass but any fails",
			all:  []types.Condition{cond("status", types.OpEq, "todo")},
			any:  []types.Condition{cond("qty", types.OpLt, 5)},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := types.WorkflowRule{
				ID:            "rule-1",
				ModuleID:      "invoices",
				Trigger:       types.TriggerOnCreate,
				ConditionsAll: tt.all,
				ConditionsAny: tt.any,
				IsActive:      true,
			}
			if got := RuleApplies(rule, ev); got != tt.want {
				t.Errorf("RuleApplies() = %v, want %v", got, tt.want)
			}
		})
	}
}

// fakeRuleStore serves canned rules or a canned error.
type fakeRuleStore struct {
	rules []types.WorkflowRule
	err   error

	gotModuleID string
	gotTriggers []types.TriggerType
}

func (f *fakeRuleStore) FetchRules(ctx context.Context, moduleID string, triggers []types.TriggerType) ([]types.WorkflowRule, error) {
	f.gotModuleID = moduleID
	f.gotTriggers = triggers
	return f.rules, f.err
}

// countingHandler records executions and optionally fails.
type countingHandler struct {
	kind  types.ActionKind
	calls int
	err   error
}

func (h *countingHandler) Kind() types.ActionKind { return h.kind }

func (h *countingHandler) Execute(ctx context.Context, action types.Action, actx ActionContext) error {
	h.calls++
	return h.err
}

func TestEngine_RunForEvent_DispatchesMatchingRules(t *testing.T) {
	handler := &countingHandler{kind: types.ActionSendNote}
	store := &fakeRuleStore{rules: []types.WorkflowRule{
		{
			ID: "r1", ModuleID: "invoices", Trigger: types.TriggerOnCreate, IsActive: true,
			ConditionsAll: []types.Condition{cond("status", types.OpEq, "todo")},
			Actions:       []types.Action{{ID: "a1", Kind: types.ActionSendNote}},
		},
		{
			ID: "r2", ModuleID: "invoices", Trigger: types.TriggerOnCreate, IsActive: true,
			ConditionsAll: []types.Condition{cond("status", types.OpEq, "done")},
			Actions:       []types.Action{{ID: "a2", Kind: types.ActionSendNote}},
		},
	}}

	engine := NewEngine(store, NewDispatcher(testLogger(), handler), testLogger())
	engine.RunForEvent(context.Background(), types.Event{
		ModuleID: "invoices",
		Kind:     types.EventCreate,
		Current:  types.Record{"id": "1", "status": "todo"},
	})

	if handler.calls != 1 {
		t.Errorf("handler calls = %d, want 1 (only the matching rule)", handler.calls)
	}
	if store.gotModuleID != "invoices" {
		t.Errorf("fetched module = %q, want invoices", store.gotModuleID)
	}
	if len(store.gotTriggers) != 2 {
		t.Errorf("fetched triggers = %v, want create-compatible pair", store.gotTriggers)
	}
}

func TestEngine_RunForEvent_UpsertSkipsOnCreateRules(t *testing.T) {
	handler := &countingHandler{kind: types.ActionSendNote}
	store := &fakeRuleStore{rules: []types.WorkflowRule{
		// A store returning a broader set than requested: the engine must
		// still enforce trigger compatibility.
		{
			ID: "r1", ModuleID: "invoices", Trigger: types.TriggerOnCreate, IsActive: true,
			Actions: []types.Action{{ID: "a1", Kind: types.ActionSendNote}},
		},
		{
			ID: "r2", ModuleID: "invoices", Trigger: types.TriggerOnUpsert, IsActive: true,
			Actions: []types.Action{{ID: "a2", Kind: types.ActionSendNote}},
		},
	}}

	engine := NewEngine(store, NewDispatcher(testLogger(), handler), testLogger())
	engine.RunForEvent(context.Background(), types.Event{
		ModuleID: "invoices",
		Kind:     types.EventUpsert,
		Current:  types.Record{"id": "1"},
		Previous: types.Record{"id": "1"},
	})

	if handler.calls != 1 {
		t.Errorf("handler calls = %d, want 1 (on_create rule must not fire on upsert)", handler.calls)
	}
}

func TestEngine_RunForEvent_FetchFailureAbandonsPass(t *testing.T) {
	handler := &countingHandler{kind: types.ActionSendNote}
	store := &fakeRuleStore{err: errors.New("store unavailable")}

	engine := NewEngine(store, NewDispatcher(testLogger(), handler), testLogger())
	engine.RunForEvent(context.Background(), types.Event{
		ModuleID: "invoices",
		Kind:     types.EventCreate,
		Current:  types.Record{"id": "1"},
	})

	if handler.calls != 0 {
		t.Errorf("handler calls = %d, want 0 after fetch failure", handler.calls)
	}
}

func TestEngine_RunForEvent_SecondRuleFailureDoesNotAffectFirst(t *testing.T) {
	good := &countingHandler{kind: types.ActionSendNote}
	bad := &countingHandler{kind: types.ActionSendSMS, err: errors.New("boom")}

	store := &fakeRuleStore{rules: []types.WorkflowRule{
		{
			ID: "r1", ModuleID: "tasks", Trigger: types.TriggerOnCreate, IsActive: true,
			Actions: []types.Action{{ID: "a1", Kind: types.ActionSendNote}},
		},
		{
			ID: "r2", ModuleID: "tasks", Trigger: types.TriggerOnCreate, IsActive: true,
			// The failing action sits between two good ones: both siblings
			// must still run.
			Actions: []types.Action{
				{ID: "a2", Kind: types.ActionSendNote},
				{ID: "a3", Kind: types.ActionSendSMS},
				{ID: "a4", Kind: types.ActionSendNote},
			},
		},
	}}

	engine := NewEngine(store, NewDispatcher(testLogger(), good, bad), testLogger())
	engine.RunForEvent(context.Background(), types.Event{
		ModuleID: "tasks",
		Kind:     types.EventCreate,
		Current:  types.Record{"id": "9"},
	})

	if good.calls != 3 {
		t.Errorf("good handler calls = %d, want 3 (failure isolated per action)", good.calls)
	}
	if bad.calls != 1 {
		t.Errorf("failing handler calls = %d, want 1", bad.calls)
	}
}
