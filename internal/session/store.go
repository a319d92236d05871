package session

import (
	"sync"

	"github.com/google/uuid"
)

// Store maps session IDs to their contexts. Contexts are created on first
// use and live for the process lifetime; they are overwritten, not evicted.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Context
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Context)}
}

// New creates a fresh session and returns its ID and context.
func (s *Store) New() (string, *Context) {
	id := uuid.NewString()
	ctx := newContext()

	s.mu.Lock()
	s.sessions[id] = ctx
	s.mu.Unlock()

	return id, ctx
}

// Get returns the context for id, if it exists.
func (s *Store) Get(id string) (*Context, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ctx, ok := s.sessions[id]
	return ctx, ok
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
