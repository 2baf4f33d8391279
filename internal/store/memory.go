// internal/store/memory.go
//
// In-memory implementation of the session Store.
// This is the default persistence layer for live sessions when no Redis
// address is configured.
//
// Characteristics:
//   - Stores a JSON snapshot of each session keyed by ID, like the Redis store.
//     Get decodes a fresh *game.Session, so callers never share one.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Expired sessions are dropped lazily on Get and by Sweep.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robalobadob/wordle/apps/go-wordle/internal/game"
)

// ErrNotFound is returned when no session exists for an ID.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session does not exist.
	Get(ctx context.Context, id string) (*game.Session, error)
}

type entry struct {
	blob    []byte
	savedAt time.Time
}

// Memory is an in-memory map-based Store implementation.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
// A ttl of 0 keeps sessions forever.
func NewMemoryStore(ttl time.Duration) *Memory {
	return &Memory{sessions: make(map[string]entry), ttl: ttl, now: time.Now}
}

// Save snapshots the session into the map.
func (m *Memory) Save(_ context.Context, s *game.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = entry{blob: b, savedAt: m.now()}
	return nil
}

// Get decodes a private copy of the session stored under ID.
func (m *Memory) Get(_ context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if m.expired(e) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	var s game.Session
	if err := json.Unmarshal(e.blob, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

// Sweep removes expired sessions and reports how many were dropped.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if m.expired(e) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func (m *Memory) expired(e entry) bool {
	return m.ttl > 0 && m.now().Sub(e.savedAt) > m.ttl
}
