package mem

import (
	"context"
	"sync"
	"time"
)

// IdempotencyStore remembers which resource an Idempotency-Key produced.
type IdempotencyStore interface {
	// Get returns the resource id recorded for key, if any and not expired.
	Get(ctx context.Context, key string) (string, bool, error)

	// Remember records resourceID for key unless the key is already taken.
	// It reports whether this call stored the value. An empty resourceID
	// reserves the key for a request that is still running.
	Remember(ctx context.Context, key, resourceID string, ttl time.Duration) (bool, error)

	// Complete overwrites key with the resource the reserving request produced.
	Complete(ctx context.Context, key, resourceID string, ttl time.Duration) error

	// Forget drops key so the client may retry after a failed request.
	Forget(ctx context.Context, key string) error
}

type entry struct {
	resourceID string
	expiresAt  time.Time
}

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return "", false, nil
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.data, key)
		s.mu.Unlock()
		return "", false, nil
	}
	return e.resourceID, true, nil
}

func (s *MemoryStore) Remember(_ context.Context, key, resourceID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.data[key]; ok && !s.now().After(e.expiresAt) {
		return false, nil
	}
	s.data[key] = entry{
		resourceID: resourceID,
		expiresAt:  s.now().Add(ttl),
	}
	return true, nil
}

func (s *MemoryStore) Complete(_ context.Context, key, resourceID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = entry{
		resourceID: resourceID,
		expiresAt:  s.now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) Forget(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}
