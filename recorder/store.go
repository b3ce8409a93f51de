package recorder

import (
	"sync"

	"github.com/macrokit/macrocli/types"
)

// Store is the append-only log of completed sessions, shared by the CLI and
// the control server.
type Store struct {
	mu       sync.RWMutex
	sessions []*types.Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{}
}

// Add appends a completed session. Nil sessions are ignored so callers can
// pass Stop's result straight through.
func (s *Store) Add(session *types.Session) {
	if session == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, session)
}

// List returns the sessions in completion order.
func (s *Store) List() []*types.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Get returns the session with the given id.
func (s *Store) Get(id int) (*types.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, session := range s.sessions {
		if session.ID == id {
			return session, true
		}
	}
	return nil, false
}

// Last returns the most recently completed session.
func (s *Store) Last() (*types.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.sessions) == 0 {
		return nil, false
	}
	return s.sessions[len(s.sessions)-1], true
}

// Count returns the number of completed sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
