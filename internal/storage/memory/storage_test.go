package memorystorage

import (
	"context"
	"testing"
	"time"

	"github.com/petrenko-v/dayplanner/internal/storage"
	"github.com/stretchr/testify/require"
)

func newEvent(title string, owner string, start time.Time) storage.Event {
	return storage.Event{
		Title:       title,
		Description: "description",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		Priority:    storage.PriorityNormal,
		OwnerID:     owner,
	}
}

func TestStorage(t *testing.T) {
	ctx := context.Background()
	initDate := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("add event", func(t *testing.T) {
		s := New()
		e := newEvent("test", "alice", initDate)

		require.NoError(t, s.AddEvent(ctx, &e))
		require.NotEmpty(t, e.ID)
		require.False(t, e.CreatedAt.IsZero())

		events, err := s.ListEvents(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, e, events[0])
	})

	t.Run("list is scoped to owner and ordered by start time", func(t *testing.T) {
		s := New()
		later := newEvent("later", "alice", initDate.Add(2*time.Hour))
		earlier := newEvent("earlier", "alice", initDate)
		other := newEvent("other", "bob", initDate.Add(time.Hour))
		require.NoError(t, s.AddEvent(ctx, &later))
		require.NoError(t, s.AddEvent(ctx, &earlier))
		require.NoError(t, s.AddEvent(ctx, &other))

		events, err := s.ListEvents(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, events, 2)
		require.Equal(t, "earlier", events[0].Title)
		require.Equal(t, "later", events[1].Title)
	})

	t.Run("update event", func(t *testing.T) {
		s := New()
		e := newEvent("test", "alice", initDate)
		require.NoError(t, s.AddEvent(ctx, &e))

		updated := e
		updated.Title = "updated title"
		updated.StartTime = e.StartTime.Add(21 * time.Minute)
		updated.EndTime = e.EndTime.Add(33 * time.Minute)
		updated.Priority = storage.PriorityCritical
		require.NoError(t, s.UpdateEvent(ctx, e.ID, "alice", updated))

		got, err := s.GetEvent(ctx, e.ID, "alice")
		require.NoError(t, err)
		require.Equal(t, "updated title", got.Title)
		require.Equal(t, storage.PriorityCritical, got.Priority)
		require.Equal(t, e.CreatedAt, got.CreatedAt)
		require.Equal(t, e.OwnerID, got.OwnerID)
	})

	t.Run("delete event", func(t *testing.T) {
		s := New()
		e := newEvent("test", "alice", initDate)
		require.NoError(t, s.AddEvent(ctx, &e))

		require.NoError(t, s.RemoveEvent(ctx, e.ID, "alice"))

		events, err := s.ListEvents(ctx, "alice")
		require.NoError(t, err)
		require.Empty(t, events)
	})

	t.Run("list starting between", func(t *testing.T) {
		s := New()
		for i := 0; i < 10; i++ {
			e := newEvent("test", "alice", initDate.AddDate(0, 0, i))
			require.NoError(t, s.AddEvent(ctx, &e))
		}

		events, err := s.ListStartingBetween(ctx, initDate, initDate.AddDate(0, 0, 3))
		require.NoError(t, err)
		require.Len(t, events, 3)
	})

	t.Run("remove started before", func(t *testing.T) {
		s := New()
		old := newEvent("old", "alice", initDate)
		fresh := newEvent("fresh", "alice", initDate.AddDate(1, 0, 0))
		require.NoError(t, s.AddEvent(ctx, &old))
		require.NoError(t, s.AddEvent(ctx, &fresh))

		require.NoError(t, s.RemoveStartedBefore(ctx, initDate.AddDate(0, 6, 0)))

		events, err := s.ListEvents(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, "fresh", events[0].Title)
	})
}

func TestStorageNegativeCases(t *testing.T) {
	ctx := context.Background()
	initDate := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("add event with same id", func(t *testing.T) {
		s := New()
		e := newEvent("test", "alice", initDate)
		require.NoError(t, s.AddEvent(ctx, &e))
		require.ErrorIs(t, s.AddEvent(ctx, &e), storage.ErrDuplicateEventID)
	})

	t.Run("end not after start", func(t *testing.T) {
		s := New()
		e := newEvent("test", "alice", initDate)
		e.EndTime = e.StartTime
		require.ErrorIs(t, s.AddEvent(ctx, &e), storage.ErrIncorrectEventTime)
	})

	t.Run("update not exist event", func(t *testing.T) {
		s := New()
		e := newEvent("test", "alice", initDate)
		require.ErrorIs(t, s.UpdateEvent(ctx, "___not_exists___", "alice", e), storage.ErrNotFoundOrForbidden)
	})

	t.Run("update event of another owner", func(t *testing.T) {
		s := New()
		e := newEvent("test", "bob", initDate)
		require.NoError(t, s.AddEvent(ctx, &e))

		update := e
		update.Title = "hijacked"
		require.ErrorIs(t, s.UpdateEvent(ctx, e.ID, "alice", update), storage.ErrNotFoundOrForbidden)

		got, err := s.GetEvent(ctx, e.ID, "bob")
		require.NoError(t, err)
		require.Equal(t, "test", got.Title)
	})

	t.Run("get event of another owner", func(t *testing.T) {
		s := New()
		e := newEvent("test", "bob", initDate)
		require.NoError(t, s.AddEvent(ctx, &e))
		_, err := s.GetEvent(ctx, e.ID, "alice")
		require.ErrorIs(t, err, storage.ErrNotFoundOrForbidden)
	})

	t.Run("delete event of another owner", func(t *testing.T) {
		s := New()
		e := newEvent("test", "bob", initDate)
		require.NoError(t, s.AddEvent(ctx, &e))
		require.ErrorIs(t, s.RemoveEvent(ctx, e.ID, "alice"), storage.ErrNotFoundOrForbidden)

		_, err := s.GetEvent(ctx, e.ID, "bob")
		require.NoError(t, err)
	})

	t.Run("delete not exist event", func(t *testing.T) {
		s := New()
		require.ErrorIs(t, s.RemoveEvent(ctx, "___not_exists___", "alice"), storage.ErrNotFoundOrForbidden)
	})
}
