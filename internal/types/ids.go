package types

import "github.com/google/uuid"

// RuleID identifies a workflow rule. Opaque and immutable once created.
// String alias keeps JSON serialization plain while giving type safety.
type RuleID string

// ActionID identifies one action within a rule's action list.
type ActionID string

// NoteID identifies a persisted note created by a send_note action.
type NoteID string

// NewRuleID generates a UUIDv7 rule identifier.
// Time-ordered IDs cluster sequential inserts in B-tree pages.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewRuleID() RuleID {
	return RuleID(uuid.Must(uuid.NewV7()).String())
}

// NewNoteID generates a UUIDv7 note identifier.
func NewNoteID() NoteID {
	return NoteID(uuid.Must(uuid.NewV7()).String())
}

// ParseRuleID validates and converts a string to RuleID.
// Rejects malformed UUIDs so invalid IDs never enter the system.
func ParseRuleID(s string) (RuleID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", err
	}
	return RuleID(s), nil
}
