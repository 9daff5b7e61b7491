package cache

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// CachedResponse holds a raw upstream response body.
type CachedResponse struct {
	Body      []byte
	FetchedAt time.Time
}

// entry wraps a cached response with expiry and insertion order tracking.
type entry struct {
	resp      *CachedResponse
	expiry    time.Time
	insertIdx int64
}

// ResponseCache caches Alpha Vantage response bodies so repeated requests for
// the same symbol stay inside the free-tier call budget.
// Thread-safe with sync.RWMutex.
type ResponseCache struct {
	mu         sync.RWMutex
	items      map[string]entry
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
}

// New creates a new ResponseCache with the given TTL and max entry count.
func New(ttl time.Duration, maxEntries int) *ResponseCache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &ResponseCache{
		items:      make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// MakeKey builds a cache key from an upstream function name and its query
// parameters. Parameter order does not matter; "apikey" is never part of it.
func MakeKey(function string, params map[string]string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		if name == "apikey" || name == "function" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(function)
	for _, name := range names {
		b.WriteString(":")
		b.WriteString(name)
		b.WriteString("=")
		b.WriteString(params[name])
	}
	return b.String()
}

// Get returns a cached response if found and not expired.
func (c *ResponseCache) Get(key string) (*CachedResponse, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Now().After(e.expiry) {
		c.mu.Lock()
		if e2, ok2 := c.items[key]; ok2 && time.Now().After(e2.expiry) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.resp, true
}

// Set stores a response in the cache. Evicts the oldest entry if at capacity.
func (c *ResponseCache) Set(key string, resp *CachedResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{
		resp:      resp,
		expiry:    time.Now().Add(c.ttl),
		insertIdx: c.nextIdx,
	}
	c.nextIdx++

	if _, exists := c.items[key]; exists {
		c.items[key] = e
		return
	}

	if len(c.items) >= c.maxEntries {
		c.evictOldest()
	}

	c.items[key] = e
}

// InvalidateSymbol removes every entry whose parameters mention symbol.
func (c *ResponseCache) InvalidateSymbol(symbol string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.items {
		for _, seg := range strings.Split(key, ":") {
			if seg == "symbol="+symbol || seg == "tickers="+symbol {
				delete(c.items, key)
				removed++
				break
			}
		}
	}
	return removed
}

// Len returns the number of stored entries, including expired ones not yet
// collected.
func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (c *ResponseCache) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, e := range c.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
