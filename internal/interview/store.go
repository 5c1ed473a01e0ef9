package interview

import (
	"errors"
	"sync"
)

// ErrSessionNotFound is returned for operations against an unknown or
// expired session identifier. The caller recovers by starting over.
var ErrSessionNotFound = errors.New("session not found")

// Store holds live sessions keyed by their opaque identifier. It is
// injected into the Manager so tests can substitute their own.
type Store interface {
	Put(s *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
}

// MemoryStore is the default process-local session store. Sessions never
// share state, so the map mutex is the only cross-session coordination.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (st *MemoryStore) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
}

func (st *MemoryStore) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return s, ok
}

func (st *MemoryStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}
