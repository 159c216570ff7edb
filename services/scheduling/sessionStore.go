// File: services/scheduling/sessionStore.go
package scheduling

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"meetwise/models"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "assistant:session:"

// SessionStore is the narrow persistence interface the orchestrator
// depends on. A nil session with a nil error from Get means "no session
// yet"; the orchestrator creates one lazily.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.ConversationSession, error)
	Put(ctx context.Context, session *models.ConversationSession) error
	Delete(ctx context.Context, sessionID string) error
	// Touch extends the session's lifetime where the backing store expires
	// entries; stores without eviction treat it as a no-op.
	Touch(ctx context.Context, sessionID string) error
	// TurnLock hands out the per-session mutex that serializes turns for
	// one session while different sessions proceed in parallel.
	TurnLock(sessionID string) *sync.Mutex
}

// turnLockSet is a keyed mutex map shared by both store implementations.
type turnLockSet struct {
	locks map[string]*sync.Mutex
	mu    sync.Mutex
}

func newTurnLockSet() *turnLockSet {
	return &turnLockSet{locks: make(map[string]*sync.Mutex)}
}

func (s *turnLockSet) get(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, exists := s.locks[sessionID]
	if !exists {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}

// RedisSessionStore keeps sessions in Redis as JSON with a TTL, so an
// abandoned conversation eventually expires instead of living for the
// process lifetime.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	locks  *turnLockSet
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl, locks: newTurnLockSet()}
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.ConversationSession, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session models.ConversationSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, session *models.ConversationSession) error {
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+session.SessionID, b, s.ttl).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}

func (s *RedisSessionStore) Touch(ctx context.Context, sessionID string) error {
	return s.client.Expire(ctx, sessionKeyPrefix+sessionID, s.ttl).Err()
}

func (s *RedisSessionStore) TurnLock(sessionID string) *sync.Mutex {
	return s.locks.get(sessionID)
}
