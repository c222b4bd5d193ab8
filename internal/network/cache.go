package network

import (
	"net/http"
	"sync"
	"time"
)

// cacheEntry is a stored GET response. Entries are immutable after insertion.
type cacheEntry struct {
	status  int
	headers http.Header
	body    []byte
	stored  time.Time
}

// Cache keeps recent successful GET responses keyed by path+query. Its only
// consumer is the dispatcher, which serves a cached body for 304 Not Modified
// replies and stores fresh 200 bodies. Size is bounded by evicting the oldest
// entry once the cap is reached; the TTL guards against serving stale bodies
// after long pauses.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	max     int
}

// NewCache builds a cache holding at most max entries for at most ttl each.
func NewCache(max int, ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		max:     max,
	}
}

func (c *Cache) put(key string, resp Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.max {
		c.evictOldestLocked()
	}
	c.entries[key] = cacheEntry{
		status:  resp.Status,
		headers: resp.Headers,
		body:    resp.Body,
		stored:  time.Now(),
	}
}

func (c *Cache) get(key string) (Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Response{}, false
	}
	if time.Since(e.stored) > c.ttl {
		delete(c.entries, key)
		return Response{}, false
	}
	return Response{Status: e.status, Headers: e.headers, Body: e.body}, true
}

// Clear drops every entry. Called on logout so one user's responses never
// leak into another's session.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.stored.Before(oldest) {
			oldestKey, oldest = k, e.stored
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
