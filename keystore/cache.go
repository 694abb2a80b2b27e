package keystore

import (
	"sync"
	"time"
)

type cacheEntry struct {
	authorized bool
	expiresAt  time.Time
}

// ttlCache is a small positive-verdict cache. It exists to shave Redis round
// trips off hot credentials, not to survive a store outage; stale entries
// are only consulted when the store explicitly opts in.
type ttlCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

func newTTLCache(ttl time.Duration) *ttlCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ttlCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// get returns the cached verdict, whether an entry exists at all, and
// whether that entry is still fresh. Expired entries are kept so callers
// that serve stale can still read them.
func (c *ttlCache) get(credential string) (authorized, ok, fresh bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[credential]
	if !exists {
		return false, false, false
	}
	return entry.authorized, true, time.Now().Before(entry.expiresAt)
}

func (c *ttlCache) put(credential string, authorized bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[credential] = cacheEntry{
		authorized: authorized,
		expiresAt:  time.Now().Add(c.ttl),
	}
}

func (c *ttlCache) invalidate(credential string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, credential)
}
