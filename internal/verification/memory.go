package verification

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with in-process state. Suitable for tests.
type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]memoryToken
	ttl    time.Duration
	now    func() time.Time
}

type memoryToken struct {
	userID    string
	expiresAt time.Time
}

// NewMemoryStore returns an empty in-process store whose tokens expire after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{tokens: make(map[string]memoryToken), ttl: ttl, now: time.Now}
}

func (s *MemoryStore) Issue(_ context.Context, userID string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = memoryToken{userID: userID, expiresAt: s.now().Add(s.ttl)}
	return token, nil
}

func (s *MemoryStore) Consume(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok {
		return "", ErrTokenNotFound
	}
	delete(s.tokens, token)
	if s.now().After(t.expiresAt) {
		return "", ErrTokenNotFound
	}
	return t.userID, nil
}
