// internal/store/memory.go
//
// Session storage for the game controller, plus the in-memory backend.
// The memory backend is the default: sessions live as long as the process.
//
// Characteristics:
//   - Stores *game.Session snapshots keyed by an opaque player key.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Get/Put copy the session, so callers never share mutable state with the map.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/wordlemon/internal/game"
)

// ErrNotFound is returned by Get when no session exists for a key.
var ErrNotFound = errors.New("session not found")

// Store defines the persistence interface for game sessions.
// Implementations may be backed by memory (this file), SQL, etc.
type Store interface {
	// Get retrieves the session for key, or ErrNotFound.
	Get(ctx context.Context, key string) (*game.Session, error)

	// Put persists or replaces the session for key.
	Put(ctx context.Context, key string, s *game.Session) error

	// Clear removes the session for key. Clearing a missing key is not an error.
	Clear(ctx context.Context, key string) error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex             // guards sessions map
	sessions map[string]*game.Session // keyed by player key
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*game.Session)}
}

func (m *memory) Get(ctx context.Context, key string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[key]; ok {
		return s.Clone(), nil
	}
	return nil, ErrNotFound
}

func (m *memory) Put(ctx context.Context, key string, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = s.Clone()
	return nil
}

func (m *memory) Clear(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
	return nil
}
