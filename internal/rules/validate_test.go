package rules

import (
	"errors"
	"testing"

	"github.com/charmkar/workflow/internal/types"
)

func validRule() types.WorkflowRule {
	return types.WorkflowRule{
		ID:       "r1",
		ModuleID: "invoices",
		Trigger:  types.TriggerOnCreate,
		ConditionsAll: []types.Condition{
			cond("status", types.OpEq, "todo"),
		},
		Actions: []types.Action{
			{ID: "a1", Kind: types.ActionSendNote, Config: map[string]any{"note_text": "hi"}},
		},
		IsActive: true,
	}
}

func TestValidateRule(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.WorkflowRule)
		wantErr error
	}{
		{
			name:   "valid rule",
			mutate: func(r *types.WorkflowRule) {},
		},
		{
			name:    "missing id",
			mutate:  func(r *types.WorkflowRule) { r.ID = "" },
			wantErr: types.ErrInvalidRule,
		},
		{
			name:    "missing module id",
			mutate:  func(r *types.WorkflowRule) { r.ModuleID = "" },
			wantErr: types.ErrInvalidRule,
		},
		{
			name:    "unknown trigger",
			mutate:  func(r *types.WorkflowRule) { r.Trigger = "on_delete" },
			wantErr: types.ErrInvalidRule,
		},
		{
			name: "unknown operator",
			mutate: func(r *types.WorkflowRule) {
				r.ConditionsAll = []types.Condition{cond("x", "regex_match", "a.*")}
			},
			wantErr: types.ErrUnknownOperator,
		},
		{
			name: "missing operand",
			mutate: func(r *types.WorkflowRule) {
				r.ConditionsAll = []types.Condition{{Field: "x", Operator: types.OpGt}}
			},
			wantErr: types.ErrMissingOperand,
		},
		{
			name: "operand-free operator without value",
			mutate: func(r *types.WorkflowRule) {
				r.ConditionsAll = []types.Condition{{Field: "x", Operator: types.OpIsNull}}
			},
		},
		{
			name: "condition without field",
			mutate: func(r *types.WorkflowRule) {
				r.ConditionsAny = []types.Condition{cond("", types.OpEq, "v")}
			},
			wantErr: types.ErrInvalidRule,
		},
		{
			name: "unknown action kind",
			mutate: func(r *types.WorkflowRule) {
				r.Actions = []types.Action{{ID: "a1", Kind: "launch_rocket"}}
			},
			wantErr: types.ErrUnknownActionKind,
		},
		{
			name: "declared but unhandled kinds pass",
			mutate: func(r *types.WorkflowRule) {
				r.Actions = []types.Action{
					{ID: "a1", Kind: types.ActionSendEmail},
					{ID: "a2", Kind: types.ActionUpdateRecord},
					{ID: "a3", Kind: types.ActionCreateRelatedRecord},
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := validRule()
			tt.mutate(&rule)
			err := ValidateRule(rule)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRule() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRule() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
