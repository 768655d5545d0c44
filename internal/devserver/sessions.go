package devserver

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

const sessionTTL = 24 * time.Hour

// SessionStore persists opaque session tokens. The dev server runs against
// the in-memory implementation by default and the Redis one when REDIS_ADDR
// is set.
type SessionStore interface {
	Create(ctx context.Context, userID string) (token string, err error)
	Get(ctx context.Context, token string) (userID string, ok bool, err error)
	Delete(ctx context.Context, token string) error
}

func newSessionToken() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// MemorySessions is the zero-dependency SessionStore.
type MemorySessions struct {
	mu   sync.Mutex
	sess map[string]memorySession
}

type memorySession struct {
	userID    string
	expiresAt time.Time
}

// NewMemorySessions initializes an empty in-memory session store.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sess: make(map[string]memorySession)}
}

func (m *MemorySessions) Create(_ context.Context, userID string) (string, error) {
	token := newSessionToken()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess[token] = memorySession{userID: userID, expiresAt: time.Now().Add(sessionTTL)}
	return token, nil
}

func (m *MemorySessions) Get(_ context.Context, token string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sess[token]
	if !ok {
		return "", false, nil
	}
	if time.Now().After(s.expiresAt) {
		delete(m.sess, token)
		return "", false, nil
	}
	return s.userID, true, nil
}

func (m *MemorySessions) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sess, token)
	return nil
}
