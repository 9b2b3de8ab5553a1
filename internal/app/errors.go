package app

import "errors"

var (
	// ErrValidation marks malformed input. Surfaced immediately, no retry.
	ErrValidation = errors.New("invalid event input")
	// ErrMutationPending rejects a second mutation for an event id that
	// already has one in flight.
	ErrMutationPending = errors.New("mutation already pending for event")
	// ErrStoreUnavailable wraps transient store failures. The caller may
	// resubmit; nothing is retried here.
	ErrStoreUnavailable = errors.New("event store unavailable")
)
