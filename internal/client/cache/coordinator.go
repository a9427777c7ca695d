// Package cache prevents cross-user leakage of cached server data: whenever
// the authenticated identity changes, everything cached is discarded before
// the new identity is exposed to the rest of the application.
package cache

import "sync"

// Cache is a store of server-derived query results.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	Flush()
}

// MemoryCache is a trivial in-process Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]interface{}
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]interface{})}
}

func (c *MemoryCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *MemoryCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *MemoryCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]interface{})
}

// Coordinator tracks the last known authenticated user id and flushes the
// cache on any identity transition: none→some, some→none, and A→B.
type Coordinator struct {
	mu         sync.Mutex
	lastUserID string
	cache      Cache
}

func NewCoordinator(c Cache) *Coordinator {
	return &Coordinator{cache: c}
}

// OnIdentityResolved must be called after every successful identity
// resolution (login or session resume). An empty id means "nobody".
func (co *Coordinator) OnIdentityResolved(userID string) {
	co.mu.Lock()
	defer co.mu.Unlock()
	if userID != co.lastUserID {
		co.cache.Flush()
	}
	co.lastUserID = userID
}

// OnLogout discards the cache unconditionally and clears the marker.
func (co *Coordinator) OnLogout() {
	co.mu.Lock()
	defer co.mu.Unlock()
	co.cache.Flush()
	co.lastUserID = ""
}

// LastUserID reports the currently tracked identity (tests and diagnostics).
func (co *Coordinator) LastUserID() string {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.lastUserID
}
