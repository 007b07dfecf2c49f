package memory

import (
	"context"
	"sync"
	"time"

	"Thread_of_Hope/internal/pkg"
)

type sessionEntry struct {
	value     string
	expiresAt time.Time
}

// SessionRepository 与 redis 版本同样的语义：带过期时间的 key-value
type SessionRepository struct {
	mu       sync.Mutex
	now      func() time.Time
	sessions map[string]sessionEntry
	tokens   map[string]sessionEntry
}

func NewSessionRepository(now func() time.Time) *SessionRepository {
	return &SessionRepository{
		now:      now,
		sessions: make(map[string]sessionEntry),
		tokens:   make(map[string]sessionEntry),
	}
}

func (r *SessionRepository) CreateSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	r.put(r.sessions, sessionID, userID, ttl)
	return nil
}

func (r *SessionRepository) GetSession(ctx context.Context, sessionID string) (string, error) {
	return r.get(r.sessions, sessionID)
}

func (r *SessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}

func (r *SessionRepository) SetUserToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	r.put(r.tokens, userID, token, ttl)
	return nil
}

func (r *SessionRepository) GetUserToken(ctx context.Context, userID string) (string, error) {
	return r.get(r.tokens, userID)
}

func (r *SessionRepository) DeleteUserToken(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, userID)
	return nil
}

func (r *SessionRepository) put(m map[string]sessionEntry, key, value string, ttl time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m[key] = sessionEntry{value: value, expiresAt: r.now().Add(ttl)}
}

func (r *SessionRepository) get(m map[string]sessionEntry, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := m[key]
	if !ok {
		return "", pkg.ErrNotFound
	}
	if !r.now().Before(e.expiresAt) {
		delete(m, key)
		return "", pkg.ErrNotFound
	}
	return e.value, nil
}
