// Package cache holds validation outcomes across audit runs within one
// process.
//
// Entries are keyed by a hash of (provider, secret), never the secret
// itself, and are bounded both by TTL and by total size. Failed results
// are cached too: re-hammering a provider that is mid-outage within the
// TTL window helps nobody. Nothing is ever persisted to disk.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/systmms/keyaudit/pkg/provider"
)

const (
	// DefaultTTL is how long a cached outcome stays fresh.
	DefaultTTL = time.Hour

	// DefaultMaxSize bounds the number of cached outcomes.
	DefaultMaxSize = 10_000
)

// Stats counts cache effectiveness across the cache's lifetime.
type Stats struct {
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
}

// HitRate returns hits/(hits+misses), or 0 before any lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

type entry struct {
	result     provider.KeyResult
	insertedAt time.Time
}

// ValidationCache is a thread-safe TTL and size bounded store of past
// KeyResults. One instance is constructed at process start and shared by
// every audit run; concurrent Get/Put from validation tasks is safe.
type ValidationCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	store   map[string]entry
	stats   Stats
	now     func() time.Time
}

// New creates a cache with the given bounds. Non-positive arguments fall
// back to the defaults.
func New(ttl time.Duration, maxSize int) *ValidationCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &ValidationCache{
		ttl:     ttl,
		maxSize: maxSize,
		store:   make(map[string]entry),
		now:     time.Now,
	}
}

// cacheKey hashes provider and secret together so identical secrets under
// different providers never collide, and the raw secret never lands in the
// map.
func cacheKey(providerName, key string) string {
	sum := sha256.Sum256([]byte(providerName + ":" + key))
	return hex.EncodeToString(sum[:])[:16]
}

// Get returns the cached result for (provider, key) if one exists and is
// younger than the TTL. A stale entry is evicted on the spot. Every call
// counts as exactly one hit or one miss.
func (c *ValidationCache) Get(providerName, key string) (provider.KeyResult, bool) {
	ck := cacheKey(providerName, key)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.store[ck]
	if ok && c.now().Sub(e.insertedAt) < c.ttl {
		c.stats.Hits++
		return e.result, true
	}
	if ok {
		delete(c.store, ck)
	}
	c.stats.Misses++
	return provider.KeyResult{}, false
}

// Put stores a result, evicting the single oldest entry first when the
// cache is full. Failed results are stored deliberately, same as
// successes.
func (c *ValidationCache) Put(providerName, key string, result provider.KeyResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.store) >= c.maxSize {
		var oldestKey string
		var oldestAt time.Time
		for k, e := range c.store {
			if oldestKey == "" || e.insertedAt.Before(oldestAt) {
				oldestKey, oldestAt = k, e.insertedAt
			}
		}
		delete(c.store, oldestKey)
	}
	c.store[cacheKey(providerName, key)] = entry{result: result, insertedAt: c.now()}
}

// Stats returns a snapshot of the hit/miss counters.
func (c *ValidationCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Len returns the number of live entries, stale ones included.
func (c *ValidationCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}

// Clear drops every entry but keeps the counters.
func (c *ValidationCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]entry)
}
