package memorystorage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/petrenko-v/dayplanner/internal/storage"
)

type Storage struct {
	mu   sync.RWMutex
	data map[string]storage.Event
}

func New() *Storage {
	return &Storage{data: make(map[string]storage.Event)}
}

func (s *Storage) Connect(_ context.Context) error {
	return nil
}

func (s *Storage) Close(_ context.Context) error {
	return nil
}

func (s *Storage) ListEvents(_ context.Context, ownerID string) ([]storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]storage.Event, 0)
	for _, event := range s.data {
		if event.OwnerID == ownerID {
			events = append(events, event)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
	return events, nil
}

func (s *Storage) GetEvent(_ context.Context, id string, ownerID string) (storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.data[id]
	if !ok || event.OwnerID != ownerID {
		return storage.Event{}, fmt.Errorf("failed to get event with id %q: %w", id, storage.ErrNotFoundOrForbidden)
	}
	return event, nil
}

func (s *Storage) AddEvent(_ context.Context, e *storage.Event) error {
	if !e.EndTime.After(e.StartTime) {
		return fmt.Errorf("event end time should be after start time: %w", storage.ErrIncorrectEventTime)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[e.ID]; ok {
		return fmt.Errorf("duplicate ID %q: %w", e.ID, storage.ErrDuplicateEventID)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	s.data[e.ID] = *e
	return nil
}

func (s *Storage) UpdateEvent(_ context.Context, id string, ownerID string, e storage.Event) error {
	if !e.EndTime.After(e.StartTime) {
		return fmt.Errorf("event end time should be after start time: %w", storage.ErrIncorrectEventTime)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.data[id]
	if !ok || stored.OwnerID != ownerID {
		return fmt.Errorf("failed to update event with id %q: %w", id, storage.ErrNotFoundOrForbidden)
	}
	e.ID = id
	e.OwnerID = stored.OwnerID
	e.CreatedAt = stored.CreatedAt
	e.UpdatedAt = time.Now().UTC()
	s.data[e.ID] = e
	return nil
}

func (s *Storage) RemoveEvent(_ context.Context, id string, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.data[id]
	if !ok || stored.OwnerID != ownerID {
		return fmt.Errorf("failed to remove event with id %q: %w", id, storage.ErrNotFoundOrForbidden)
	}
	delete(s.data, id)
	return nil
}

// Select in range [from:to).
func (s *Storage) ListStartingBetween(_ context.Context, from time.Time, to time.Time) ([]storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]storage.Event, 0)
	for _, event := range s.data {
		if !event.StartTime.Before(from) && event.StartTime.Before(to) {
			events = append(events, event)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
	return events, nil
}

func (s *Storage) RemoveStartedBefore(_ context.Context, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, event := range s.data {
		if event.StartTime.Before(t) {
			delete(s.data, id)
		}
	}
	return nil
}
