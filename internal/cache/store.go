package cache

import (
	"context"
	"sync"
	"time"
)

// Store is a TTL payload cache. Entries are immutable once written; an
// expired slot is simply overwritten by the next fetch.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

const defaultMaxEntries = 256

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStore is the in-process fallback used when Redis is not configured.
// Capacity is bounded: when full, expired entries are swept and then the
// entry closest to expiry is evicted.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	now        func() time.Time
}

func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &MemoryStore{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return entry.payload, true, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxEntries {
		s.evictLocked()
	}
	s.entries[key] = memoryEntry{payload: payload, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) evictLocked() {
	now := s.now()
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
	if len(s.entries) < s.maxEntries {
		return
	}
	var victim string
	var victimExpiry time.Time
	for key, entry := range s.entries {
		if victim == "" || entry.expiresAt.Before(victimExpiry) {
			victim = key
			victimExpiry = entry.expiresAt
		}
	}
	if victim != "" {
		delete(s.entries, victim)
	}
}
