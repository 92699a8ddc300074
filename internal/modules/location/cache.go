// README: Caller-owned last-known location cache (read on session start, write on booking confirm).
package location

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mmcloughlin/geohash"

	"teleport/internal/types"
)

// ErrNotFound is returned when no usable entry exists for a user.
var ErrNotFound = errors.New("location not found")

const cellPrecision = 7

// Backend stores entries; it does not apply expiry itself.
type Backend interface {
	Get(ctx context.Context, id types.ID) (Entry, error)
	Put(ctx context.Context, e Entry, ttl time.Duration) error
	Delete(ctx context.Context, id types.ID) error
}

// Cache is owned by whoever serves search sessions. Entries are only written
// when a booking is confirmed and are read back when a new session starts.
type Cache struct {
	backend Backend
	ttl     time.Duration
	now     func() time.Time
}

func NewCache(backend Backend, ttl time.Duration) *Cache {
	return &Cache{backend: backend, ttl: ttl, now: time.Now}
}

// Load returns the user's last confirmed pickup. Entries older than the TTL
// are reported as ErrNotFound even if the backend still holds them.
func (c *Cache) Load(ctx context.Context, id types.ID) (Entry, error) {
	e, err := c.backend.Get(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if c.ttl > 0 && c.now().Sub(e.ConfirmedAt) > c.ttl {
		_ = c.backend.Delete(ctx, id)
		return Entry{}, ErrNotFound
	}
	return e, nil
}

// Confirm records p as the user's last known location. Points without
// coordinates are ignored.
func (c *Cache) Confirm(ctx context.Context, id types.ID, p types.GeoPoint) error {
	if id == "" || !p.HasCoords() {
		return nil
	}
	e := Entry{
		UserID:      id,
		Point:       p,
		Cell:        geohash.EncodeWithPrecision(p.Coords.Lat, p.Coords.Lng, cellPrecision),
		ConfirmedAt: c.now(),
	}
	return c.backend.Put(ctx, e, c.ttl)
}

func (c *Cache) Invalidate(ctx context.Context, id types.ID) error {
	return c.backend.Delete(ctx, id)
}

// MemoryBackend keeps entries in process; used when Redis is not configured.
type MemoryBackend struct {
	mu      sync.Mutex
	entries map[types.ID]Entry
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[types.ID]Entry)}
}

func (m *MemoryBackend) Get(_ context.Context, id types.ID) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (m *MemoryBackend) Put(_ context.Context, e Entry, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.UserID] = e
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, id types.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}
