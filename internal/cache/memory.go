package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	verdict   bool
	expiresAt time.Time
}

// MemoryCache is a mutex-guarded TTL map. It backs tests and deployments
// without a Redis, with the same lazy-expiry contract as the Redis cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryCache) Lookup(_ context.Context, candidate, current string) (bool, bool, error) {
	key := Key(candidate, current)

	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return false, false, nil
	}

	if m.now().After(entry.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock: a concurrent Store may have
		// refreshed the entry.
		if cur, still := m.entries[key]; still && m.now().After(cur.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return false, false, nil
	}
	return entry.verdict, true, nil
}

func (m *MemoryCache) Store(_ context.Context, candidate, current string, verdict bool) error {
	key := Key(candidate, current)
	m.mu.Lock()
	m.entries[key] = memoryEntry{verdict: verdict, expiresAt: m.now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

// Len reports the number of entries, expired ones included.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
