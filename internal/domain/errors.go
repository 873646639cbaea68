package domain

import "errors"

// Errors surfaced by the orchestrator. All of them are recovered at the
// conversation boundary; none propagate past a single user operation.
var (
	// ErrNoActiveDraft is returned when a save is attempted with nothing
	// pending.
	ErrNoActiveDraft = errors.New("no pending transaction to save")

	// ErrBusy is returned when a user operation arrives while another one
	// is still in flight on the same conversation.
	ErrBusy = errors.New("another operation is still in progress")
)
