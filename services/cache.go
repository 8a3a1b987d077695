// services/cache.go
package services

import (
	"sync"
	"time"
)

// MatchAnalysisTTL is how long a match-analysis response stays cached.
// Source match data is immutable once the match concludes, so an hour is
// safe for consumers.
const MatchAnalysisTTL = time.Hour

type cacheEntry struct {
	payload   interface{}
	expiresAt time.Time
}

// ResponseCache is a request-shaped in-memory TTL cache for analysis
// responses. It holds serializable payloads only — never engine state.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func NewResponseCache() *ResponseCache {
	return &ResponseCache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached payload for key, or nil when absent or expired.
func (c *ResponseCache) Get(key string) interface{} {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}
	return entry.payload
}

// Set stores a payload under key for the given TTL.
func (c *ResponseCache) Set(key string, payload interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{payload: payload, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// evictExpired drops every entry past its expiry, returning the count.
func (c *ResponseCache) evictExpired() int {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	evicted := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}
