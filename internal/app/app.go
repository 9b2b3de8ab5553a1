// Package app coordinates mutations against the event store and keeps a
// per-owner cache of the event collection. Reads (list, grid, filter) go
// through the cache; every confirmed mutation invalidates it so dependent
// views never render stale data. Creates are optimistic: a provisional
// event is visible in the cache while the store request is in flight and
// the pre-mutation snapshot is restored on failure.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/petrenko-v/dayplanner/internal/calendar"
	"github.com/petrenko-v/dayplanner/internal/search"
	"github.com/petrenko-v/dayplanner/internal/storage"
	log "github.com/sirupsen/logrus"
)

// MutationState tracks one mutation through its lifecycle:
// Idle -> Pending -> {Committed, RolledBack}.
type MutationState int

const (
	MutationIdle MutationState = iota
	MutationPending
	MutationCommitted
	MutationRolledBack
)

// mutation is the per-request state machine. begin moves Idle to Pending
// and registers the event id; commit and rollback settle it and release
// the id for the next mutation.
type mutation struct {
	app     *App
	eventID string
	state   MutationState
}

func (m *mutation) commit() {
	m.settle(MutationCommitted)
}

func (m *mutation) rollback() {
	m.settle(MutationRolledBack)
}

func (m *mutation) settle(state MutationState) {
	m.app.stateMu.Lock()
	defer m.app.stateMu.Unlock()
	m.state = state
	delete(m.app.pending, m.eventID)
}

type ownerCache struct {
	events     []storage.Event
	generation uint64
	valid      bool
}

type App struct {
	storage storage.Storage

	// stateMu guards the caches and the pending set. Holding it across
	// store fetches keeps the cache a single authoritative copy, never an
	// interleaving of two fetches.
	stateMu sync.Mutex
	caches  map[string]*ownerCache
	pending map[string]struct{}

	// writeMu serializes mutations end to end: single-writer discipline.
	writeMu sync.Mutex
}

func New(s storage.Storage) *App {
	return &App{
		storage: s,
		caches:  make(map[string]*ownerCache),
		pending: make(map[string]struct{}),
	}
}

// Events returns the cached event collection for the owner, fetching from
// the store when the cache is invalid. The returned slice is a copy.
func (a *App) Events(ctx context.Context, ownerID string) ([]storage.Event, error) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	if err := a.ensureLocked(ctx, ownerID); err != nil {
		return nil, err
	}
	return cloneEvents(a.cacheFor(ownerID).events), nil
}

// Refresh drops the cached collection and refetches it from the store.
func (a *App) Refresh(ctx context.Context, ownerID string) error {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.cacheFor(ownerID).valid = false
	return a.ensureLocked(ctx, ownerID)
}

// Generation reports how many times the owner's cache has been reloaded.
func (a *App) Generation(ownerID string) uint64 {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.cacheFor(ownerID).generation
}

// GetEvent fetches a single event, enforcing ownership.
func (a *App) GetEvent(ctx context.Context, id string, ownerID string) (storage.Event, error) {
	e, err := a.storage.GetEvent(ctx, id, ownerID)
	if err != nil {
		return storage.Event{}, mapStoreError(err)
	}
	return e, nil
}

// MonthGrid builds the 42-cell grid for the month from the cached collection.
func (a *App) MonthGrid(ctx context.Context, ownerID string, month time.Time) ([]calendar.Cell, error) {
	events, err := a.Events(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return calendar.MonthGrid(month, time.Now(), events), nil
}

// FilterEvents applies the text query and priority filter over the cached
// collection, preserving its order.
func (a *App) FilterEvents(
	ctx context.Context,
	ownerID string,
	query string,
	priority search.PriorityFilter,
) ([]storage.Event, error) {
	events, err := a.Events(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return search.Filter(events, query, priority), nil
}

// CreateEvent appends a provisional event to the cache, issues the store
// create, and either restores the pre-mutation snapshot (failure) or
// refetches the authoritative collection (success). The provisional id is
// never returned.
func (a *App) CreateEvent(ctx context.Context, ownerID string, in EventInput) (storage.Event, error) {
	if err := in.Validate(); err != nil {
		return storage.Event{}, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	m, err := a.begin("pending-" + uuid.NewString())
	if err != nil {
		return storage.Event{}, err
	}
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	snapshot, err := a.patchProvisional(ctx, ownerID, m.eventID, in)
	if err != nil {
		m.rollback()
		return storage.Event{}, err
	}

	e := in.toEvent(ownerID)
	if err := a.storage.AddEvent(ctx, &e); err != nil {
		a.restoreSnapshot(ownerID, snapshot)
		m.rollback()
		return storage.Event{}, mapStoreError(err)
	}
	m.commit()
	a.refetch(ctx, ownerID)
	return e, nil
}

// UpdateEvent confirms ownership through the store, applies the update and
// refetches the cache before returning. A second mutation for an id that
// is already pending is rejected, not queued.
func (a *App) UpdateEvent(ctx context.Context, id string, ownerID string, in EventInput) error {
	if err := in.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}

	m, err := a.begin(id)
	if err != nil {
		return err
	}
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	if _, err := a.storage.GetEvent(ctx, id, ownerID); err != nil {
		m.rollback()
		return mapStoreError(err)
	}
	if err := a.storage.UpdateEvent(ctx, id, ownerID, in.toEvent(ownerID)); err != nil {
		m.rollback()
		return mapStoreError(err)
	}
	m.commit()
	a.refetch(ctx, ownerID)
	return nil
}

// RemoveEvent confirms ownership through the store, deletes the event and
// refetches the cache before returning.
func (a *App) RemoveEvent(ctx context.Context, id string, ownerID string) error {
	m, err := a.begin(id)
	if err != nil {
		return err
	}
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	if _, err := a.storage.GetEvent(ctx, id, ownerID); err != nil {
		m.rollback()
		return mapStoreError(err)
	}
	if err := a.storage.RemoveEvent(ctx, id, ownerID); err != nil {
		m.rollback()
		return mapStoreError(err)
	}
	m.commit()
	a.refetch(ctx, ownerID)
	return nil
}

func (a *App) begin(eventID string) (*mutation, error) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	if _, ok := a.pending[eventID]; ok {
		return nil, fmt.Errorf("event %q: %w", eventID, ErrMutationPending)
	}
	a.pending[eventID] = struct{}{}
	return &mutation{app: a, eventID: eventID, state: MutationPending}, nil
}

// patchProvisional loads the cache if needed, snapshots it and appends the
// provisional event so readers see the pending addition.
func (a *App) patchProvisional(
	ctx context.Context,
	ownerID string,
	provisionalID string,
	in EventInput,
) ([]storage.Event, error) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	if err := a.ensureLocked(ctx, ownerID); err != nil {
		return nil, err
	}
	cache := a.cacheFor(ownerID)
	snapshot := cloneEvents(cache.events)

	now := time.Now().UTC()
	provisional := in.toEvent(ownerID)
	provisional.ID = provisionalID
	provisional.CreatedAt = now
	provisional.UpdatedAt = now
	cache.events = append(cache.events, provisional)
	return snapshot, nil
}

func (a *App) restoreSnapshot(ownerID string, snapshot []storage.Event) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.cacheFor(ownerID).events = snapshot
}

// refetch replaces the cache with the authoritative collection after a
// committed mutation. A failed refetch leaves the cache invalid, so the
// next read fetches again.
func (a *App) refetch(ctx context.Context, ownerID string) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.cacheFor(ownerID).valid = false
	if err := a.ensureLocked(ctx, ownerID); err != nil {
		log.Warnf("failed to refetch events for owner %q: %v", ownerID, err)
	}
}

func (a *App) cacheFor(ownerID string) *ownerCache {
	c, ok := a.caches[ownerID]
	if !ok {
		c = &ownerCache{}
		a.caches[ownerID] = c
	}
	return c
}

func (a *App) ensureLocked(ctx context.Context, ownerID string) error {
	c := a.cacheFor(ownerID)
	if c.valid {
		return nil
	}
	events, err := a.storage.ListEvents(ctx, ownerID)
	if err != nil {
		return mapStoreError(err)
	}
	c.events = events
	c.valid = true
	c.generation++
	return nil
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFoundOrForbidden),
		errors.Is(err, storage.ErrIncorrectEventTime),
		errors.Is(err, storage.ErrDuplicateEventID),
		errors.Is(err, storage.ErrUnknownPriority):
		return err
	}
	return fmt.Errorf("%w: %s", ErrStoreUnavailable, err)
}

func cloneEvents(events []storage.Event) []storage.Event {
	cloned := make([]storage.Event, len(events))
	copy(cloned, events)
	return cloned
}
