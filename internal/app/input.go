package app

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/petrenko-v/dayplanner/internal/storage"
)

// EventInput carries the user-submitted fields of a create or update.
type EventInput struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Priority    storage.Priority
}

func (in EventInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.StartTime, validation.Required),
		validation.Field(&in.EndTime, validation.Required, validation.By(in.endAfterStart)),
		validation.Field(&in.Priority, validation.Required,
			validation.In(storage.PriorityNormal, storage.PriorityImportant, storage.PriorityCritical)),
	)
}

func (in EventInput) endAfterStart(_ interface{}) error {
	if !in.EndTime.After(in.StartTime) {
		return errors.New("must be after start time")
	}
	return nil
}

func (in EventInput) toEvent(ownerID string) storage.Event {
	return storage.Event{
		Title:       in.Title,
		Description: in.Description,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Priority:    in.Priority,
		OwnerID:     ownerID,
	}
}
