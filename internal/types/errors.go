package types

import "errors"

// Sentinel errors for workflow engine operations.
var (
	// ErrInvalidRule indicates a stored rule failed load-time validation.
	ErrInvalidRule = errors.New("invalid workflow rule")

	// ErrUnknownOperator indicates a condition uses an operator outside the catalogue.
	ErrUnknownOperator = errors.New("unknown condition operator")

	// ErrUnknownActionKind indicates an action type outside the declared set.
	ErrUnknownActionKind = errors.New("unknown action kind")

	// ErrMissingOperand indicates an operator that requires a comparison
	// value was stored without one.
	ErrMissingOperand = errors.New("operator requires a comparison value")

	// ErrNoHandler indicates an action kind with no registered runtime
	// handler. Declared-but-unhandled kinds (send_email, update_record,
	// create_related_record) surface this at dispatch time.
	ErrNoHandler = errors.New("no handler registered for action kind")

	// ErrInvalidRecipient indicates a phone number that failed mobile format
	// validation.
	ErrInvalidRecipient = errors.New("invalid mobile number")

	// ErrEmptyMessage indicates an SMS send was attempted with empty text.
	ErrEmptyMessage = errors.New("message text is empty")
)
