// File: services/scheduling/memoryStore.go
package scheduling

import (
	"context"
	"encoding/json"
	"sync"

	"meetwise/models"
)

// MemorySessionStore keeps sessions in a process-local map with no
// eviction. It is the default store; sessions survive for the process
// lifetime and vanish on restart.
type MemorySessionStore struct {
	sessions map[string]*models.ConversationSession
	mu       sync.RWMutex
	locks    *turnLockSet
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*models.ConversationSession),
		locks:    newTurnLockSet(),
	}
}

// Get returns a deep copy so callers never mutate stored state outside
// Put.
func (s *MemorySessionStore) Get(ctx context.Context, sessionID string) (*models.ConversationSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return copySession(session)
}

func (s *MemorySessionStore) Put(ctx context.Context, session *models.ConversationSession) error {
	stored, err := copySession(session)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sessions[session.SessionID] = stored
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) Touch(ctx context.Context, sessionID string) error {
	return nil
}

func (s *MemorySessionStore) TurnLock(sessionID string) *sync.Mutex {
	return s.locks.get(sessionID)
}

// copySession round-trips through JSON, the same shape the Redis store
// persists, so both stores return equivalent detached values.
func copySession(session *models.ConversationSession) (*models.ConversationSession, error) {
	b, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}
	var cp models.ConversationSession
	if err := json.Unmarshal(b, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}
