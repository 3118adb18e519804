// Package cache holds the booking snapshot read from the store so visuals and
// evaluations do not hit the spreadsheet on every request.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mamadbah2/gigboard/internal/domain/models"
)

// ErrCacheMiss is returned by Load when no fresh snapshot is held.
var ErrCacheMiss = errors.New("snapshot not cached")

// Snapshot stores the latest full booking list.
type Snapshot interface {
	Load(ctx context.Context) ([]models.Booking, error)
	Store(ctx context.Context, bookings []models.Booking) error
	Invalidate(ctx context.Context) error
}

// MemorySnapshot keeps the snapshot in process memory until its TTL elapses.
type MemorySnapshot struct {
	mu       sync.RWMutex
	bookings []models.Booking
	storedAt time.Time
	held     bool
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySnapshot builds an in-process snapshot. A non-positive ttl never expires.
func NewMemorySnapshot(ttl time.Duration) *MemorySnapshot {
	return &MemorySnapshot{ttl: ttl, now: time.Now}
}

// Load returns a copy of the held snapshot or ErrCacheMiss.
func (m *MemorySnapshot) Load(_ context.Context) ([]models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.held {
		return nil, ErrCacheMiss
	}
	if m.ttl > 0 && m.now().Sub(m.storedAt) >= m.ttl {
		return nil, ErrCacheMiss
	}
	return append([]models.Booking(nil), m.bookings...), nil
}

// Store replaces the snapshot with a copy of bookings.
func (m *MemorySnapshot) Store(_ context.Context, bookings []models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bookings = append([]models.Booking(nil), bookings...)
	m.storedAt = m.now()
	m.held = true
	return nil
}

// Invalidate drops the snapshot.
func (m *MemorySnapshot) Invalidate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bookings = nil
	m.held = false
	return nil
}
