package storage

import (
	"context"
	"errors"
	"time"
)

var (
	ErrDuplicateEventID = errors.New("event with same ID exists")
	// ErrNotFoundOrForbidden covers both a missing event and an event owned
	// by another user. Callers must not be able to tell the two apart.
	ErrNotFoundOrForbidden = errors.New("event not found")
	ErrIncorrectEventTime  = errors.New("incorrect event time")
	ErrUnknownPriority     = errors.New("unknown priority")
)

type Storage interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
	ListEvents(ctx context.Context, ownerID string) ([]Event, error)
	GetEvent(ctx context.Context, id string, ownerID string) (Event, error)
	AddEvent(ctx context.Context, e *Event) error
	UpdateEvent(ctx context.Context, id string, ownerID string, e Event) error
	RemoveEvent(ctx context.Context, id string, ownerID string) error
	ListStartingBetween(ctx context.Context, from time.Time, to time.Time) ([]Event, error)
	RemoveStartedBefore(ctx context.Context, t time.Time) error
}
