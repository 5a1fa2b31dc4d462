package proxy

import (
	"sync"
	"time"
)

type cacheEntry struct {
	value []byte
	at    time.Time
}

// TTLCache memoizes upstream GET bodies keyed by the fully-qualified
// upstream URL. Entries expire after a fixed window; there is no count
// bound beyond TTL expiry. Handlers run concurrently, so access is
// mutex-guarded.
type TTLCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func NewTTLCache(ttl time.Duration) *TTLCache {
	return &TTLCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *TTLCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.at) >= c.ttl {
		return nil, false
	}
	return entry.value, true
}

func (c *TTLCache) Set(key string, value []byte) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, at: c.now()}
	c.mu.Unlock()
}
