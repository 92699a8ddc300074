// README: In-process trip store used when no database is configured.
package trip

import (
	"context"
	"sync"
	"time"

	"teleport/internal/types"
)

type MemoryStore struct {
	mu     sync.Mutex
	trips  map[types.ID]Trip
	events map[types.ID][]Event
	seq    int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trips:  make(map[types.ID]Trip),
		events: make(map[types.ID][]Event),
	}
}

func (m *MemoryStore) Create(_ context.Context, t *Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[t.ID] = clone(*t)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id types.ID) (*Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := clone(t)
	return &c, nil
}

func (m *MemoryStore) UpdateStatus(_ context.Context, id types.ID, tr Transition) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok || t.Status != tr.From || t.StatusVersion != tr.Version {
		return false, nil
	}
	t.Status = tr.To
	t.StatusVersion++
	t.UpdatedAt = tr.At
	if tr.Courier != nil {
		c := *tr.Courier
		t.Courier = &c
	}
	if tr.Position != nil {
		p := *tr.Position
		t.CourierPosition = &p
	}
	m.trips[id] = t
	return true, nil
}

func (m *MemoryStore) UpdateTracking(_ context.Context, id types.ID, pos types.Point, step int, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok || t.Status != StatusEnRoute {
		return false, nil
	}
	t.CourierPosition = &pos
	t.TrackStep = step
	t.UpdatedAt = at
	m.trips[id] = t
	return true, nil
}

func (m *MemoryStore) AppendEvent(_ context.Context, e *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	ev := *e
	ev.ID = m.seq
	m.events[e.TripID] = append(m.events[e.TripID], ev)
	return nil
}

func (m *MemoryStore) ListEvents(_ context.Context, id types.ID) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events[id]))
	copy(out, m.events[id])
	return out, nil
}

// clone copies the pointer fields so callers never share state with the store.
func clone(t Trip) Trip {
	if t.Pickup.Coords != nil {
		p := *t.Pickup.Coords
		t.Pickup.Coords = &p
	}
	if t.Dropoff.Coords != nil {
		p := *t.Dropoff.Coords
		t.Dropoff.Coords = &p
	}
	if t.Courier != nil {
		c := *t.Courier
		t.Courier = &c
	}
	if t.CourierPosition != nil {
		p := *t.CourierPosition
		t.CourierPosition = &p
	}
	return t
}
