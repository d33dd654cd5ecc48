package statestore

import (
	"context"
	"sync"
	"time"

	"shopify-embedded-app/internal/ports"
)

type memoryEntry struct {
	shop      string
	expiresAt time.Time
}

// MemoryStore is a single-process state store used when Redis is not configured
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an in-memory state store
func NewMemoryStore() ports.StateStore {
	return newMemoryStore(time.Now)
}

func newMemoryStore(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

func (s *MemoryStore) Put(_ context.Context, state string, shop string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	s.entries[state] = memoryEntry{shop: shop, expiresAt: now.Add(ttl)}
	return nil
}

func (s *MemoryStore) Consume(_ context.Context, state string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[state]
	if !ok {
		return "", nil
	}
	delete(s.entries, state)
	if !s.now().Before(e.expiresAt) {
		return "", nil
	}
	return e.shop, nil
}
