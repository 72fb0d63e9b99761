// Package store implements the engine's storage collaborators on SQL:
// the rule-definition store and the persisted-notes store.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/charmkar/workflow/internal/core/db"
	"github.com/charmkar/workflow/internal/rules"
	"github.com/charmkar/workflow/internal/types"
)

// ruleRow mirrors the workflow_rules projection used by the fetch path.
// Condition groups and actions are JSON documents.
type ruleRow struct {
	RuleID        string `db:"rule_id"`
	ModuleID      string `db:"module_id"`
	TriggerType   string `db:"trigger_type"`
	ConditionsAll []byte `db:"conditions_all"`
	ConditionsAny []byte `db:"conditions_any"`
	Actions       []byte `db:"actions"`
	IsActive      bool   `db:"is_active"`
}

// RuleStore reads workflow rule definitions. The engine never writes rules;
// Save and SetActive exist for the rule-editing surface and for seeding.
type RuleStore struct {
	queries *db.Queries
	logger  *slog.Logger
}

// NewRuleStore builds a rule store over loaded named queries.
func NewRuleStore(queries *db.Queries, logger *slog.Logger) *RuleStore {
	return &RuleStore{queries: queries, logger: logger}
}

// FetchRules returns active rules scoped to the module and trigger classes.
// A row with malformed JSON or an invalid rule body is skipped and logged;
// one bad rule must not suppress automation for the whole module.
func (s *RuleStore) FetchRules(ctx context.Context, moduleID string, triggers []types.TriggerType) ([]types.WorkflowRule, error) {
	if len(triggers) == 0 {
		return nil, nil
	}

	query, err := s.queries.Raw("list-active-rules")
	if err != nil {
		return nil, err
	}
	triggerStrings := make([]string, len(triggers))
	for i, t := range triggers {
		triggerStrings[i] = string(t)
	}
	expanded, args, err := sqlx.In(query, moduleID, true, triggerStrings)
	if err != nil {
		return nil, fmt.Errorf("expand trigger list: %w", err)
	}

	conn := s.queries.DB()
	var rows []ruleRow
	if err := conn.SelectContext(ctx, &rows, conn.Rebind(expanded), args...); err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}

	out := make([]types.WorkflowRule, 0, len(rows))
	for _, row := range rows {
		rule, err := decodeRule(row)
		if err != nil {
			s.logger.Warn("skipping malformed workflow rule",
				"rule_id", row.RuleID, "error", err)
			continue
		}
		if err := rules.ValidateRule(rule); err != nil {
			s.logger.Warn("skipping invalid workflow rule",
				"rule_id", row.RuleID, "error", err)
			continue
		}
		out = append(out, rule)
	}
	return out, nil
}

// Save persists a rule definition.
func (s *RuleStore) Save(ctx context.Context, rule types.WorkflowRule) error {
	if err := rules.ValidateRule(rule); err != nil {
		return err
	}

	all, err := json.Marshal(rule.ConditionsAll)
	if err != nil {
		return fmt.Errorf("encode conditions_all: %w", err)
	}
	any_, err := json.Marshal(rule.ConditionsAny)
	if err != nil {
		return fmt.Errorf("encode conditions_any: %w", err)
	}
	actions, err := json.Marshal(rule.Actions)
	if err != nil {
		return fmt.Errorf("encode actions: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.queries.Exec(ctx, "insert-rule",
		string(rule.ID), rule.ModuleID, string(rule.Trigger),
		string(all), string(any_), string(actions), rule.IsActive, now, now)
	if err != nil {
		return fmt.Errorf("insert rule: %w", err)
	}
	return nil
}

// SetActive flips a rule's active flag. Inactive rules drop out at the fetch
// boundary.
func (s *RuleStore) SetActive(ctx context.Context, id types.RuleID, active bool) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.queries.Exec(ctx, "set-rule-active", active, now, string(id)); err != nil {
		return fmt.Errorf("set rule active: %w", err)
	}
	return nil
}

func decodeRule(row ruleRow) (types.WorkflowRule, error) {
	rule := types.WorkflowRule{
		ID:       types.RuleID(row.RuleID),
		ModuleID: row.ModuleID,
		Trigger:  types.TriggerType(row.TriggerType),
		IsActive: row.IsActive,
	}
	if len(row.ConditionsAll) > 0 {
		if err := json.Unmarshal(row.ConditionsAll, &rule.ConditionsAll); err != nil {
			return rule, fmt.Errorf("decode conditions_all: %w", err)
		}
	}
	if len(row.ConditionsAny) > 0 {
		if err := json.Unmarshal(row.ConditionsAny, &rule.ConditionsAny); err != nil {
			return rule, fmt.Errorf("decode conditions_any: %w", err)
		}
	}
	if len(row.Actions) > 0 {
		if err := json.Unmarshal(row.Actions, &rule.Actions); err != nil {
			return rule, fmt.Errorf("decode actions: %w", err)
		}
	}
	return rule, nil
}

// Note is one persisted note created by a send_note action.
type Note struct {
	NoteID    string `db:"note_id"`
	ModuleID  string `db:"module_id"`
	RecordID  string `db:"record_id"`
	Body      string `db:"body"`
	CreatedAt string `db:"created_at"`
}

// NoteStore persists notes created by send_note actions.
type NoteStore struct {
	queries *db.Queries
}

// NewNoteStore builds a note store over loaded named queries.
func NewNoteStore(queries *db.Queries) *NoteStore {
	return &NoteStore{queries: queries}
}

// CreateNote persists one note associated with (moduleID, recordID).
func (s *NoteStore) CreateNote(ctx context.Context, moduleID, recordID, text string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.queries.Exec(ctx, "insert-note",
		string(types.NewNoteID()), moduleID, recordID, text, now)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// NotesForRecord lists a record's notes in creation order.
func (s *NoteStore) NotesForRecord(ctx context.Context, moduleID, recordID string) ([]Note, error) {
	var notes []Note
	if err := s.queries.Select(ctx, "list-notes-for-record", &notes, moduleID, recordID); err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	return notes, nil
}
