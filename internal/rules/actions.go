// internal/rules/actions.go
package rules

import (
	"context"
	"fmt"

	"github.com/charmkar/workflow/internal/sms"
	"github.com/charmkar/workflow/internal/types"
)

/*
 * Runtime action handlers.
 *
 * send_note persists a rendered note against the triggering record through
 * the notes collaborator. send_sms renders the message, resolves the
 * recipient set (configured phone fields, then manual numbers, then a
 * fallback scan of the record's own phone fields when both are empty), and
 * invokes the transport once per recipient. Invalid-format numbers are
 * dropped silently; an empty recipient set or empty rendered text is a
 * silent no-op.
 *
 * A transport failure mid-way aborts the remaining recipients of that one
 * send_sms action; the dispatcher catches the error at the action boundary.
 */

// NoteStore is the persisted-notes collaborator.
type NoteStore interface {
	CreateNote(ctx context.Context, moduleID, recordID, text string) error
}

// SMSTransport delivers one message text to a recipient list.
type SMSTransport interface {
	Send(ctx context.Context, recipients []string, text string) error
}

// fallbackPhoneFields are scanned on the record itself when an SMS action
// configures no reachable recipients.
var fallbackPhoneFields = []string{"mobile_1", "mobile_2", "phone"}

// NoteAction handles send_note.
type NoteAction struct {
	notes NoteStore
}

// NewNoteAction builds the send_note handler over a notes collaborator.
func NewNoteAction(notes NoteStore) *NoteAction {
	return &NoteAction{notes: notes}
}

func (a *NoteAction) Kind() types.ActionKind { return types.ActionSendNote }

func (a *NoteAction) Execute(ctx context.Context, action types.Action, actx ActionContext) error {
	text := RenderTemplate(configString(action.Config, "note_text"), actx.Record)
	if text == "" {
		return nil
	}
	recordID := actx.Record.ID()
	if recordID == "" {
		return nil
	}
	if err := a.notes.CreateNote(ctx, actx.ModuleID, recordID, text); err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

// SMSAction handles send_sms.
type SMSAction struct {
	transport SMSTransport
}

// NewSMSAction builds the send_sms handler over a transport collaborator.
func NewSMSAction(transport SMSTransport) *SMSAction {
	return &SMSAction{transport: transport}
}

func (a *SMSAction) Kind() types.ActionKind { return types.ActionSendSMS }

func (a *SMSAction) Execute(ctx context.Context, action types.Action, actx ActionContext) error {
	text := RenderTemplate(configString(action.Config, "message"), actx.Record)
	if text == "" {
		return nil
	}

	recipients := resolveRecipients(action.Config, actx.Record)
	if len(recipients) == 0 {
		return nil
	}

	// One transport call per recipient, same rendered text. A failure aborts
	// the remaining recipients of this action.
	for _, recipient := range recipients {
		if err := a.transport.Send(ctx, []string{recipient}, text); err != nil {
			return fmt.Errorf("send sms to %s: %w", recipient, err)
		}
	}
	return nil
}

// resolveRecipients computes the deduplicated recipient set: the union of
// configured phone fields and manually entered numbers, falling back to the
// record's own phone fields only when both are empty.
func resolveRecipients(cfg map[string]any, record types.Record) []string {
	var numbers []string

	for _, field := range configStringList(cfg, "recipient_fields") {
		if raw, ok := record[field].(string); ok {
			numbers = appendValid(numbers, raw)
		}
	}
	for _, raw := range configStringList(cfg, "manual_numbers") {
		numbers = appendValid(numbers, raw)
	}

	if len(numbers) == 0 {
		for _, field := range fallbackPhoneFields {
			if raw, ok := record[field].(string); ok {
				numbers = appendValid(numbers, raw)
			}
		}
	}

	return numbers
}

// appendValid normalizes raw, validates it, and appends it unless invalid or
// already present. Invalid numbers are dropped silently.
func appendValid(numbers []string, raw string) []string {
	n := sms.NormalizeMobile(raw)
	if !sms.IsValidMobile(n) {
		return numbers
	}
	for _, existing := range numbers {
		if existing == n {
			return numbers
		}
	}
	return append(numbers, n)
}
