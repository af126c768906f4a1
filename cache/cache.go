// Package cache implements the TTL store backing the facility queries.
//
// Entries expire lazily on read and actively via a scheduled eviction,
// both at the same instant (createdAt + ttl). Each entry owns at most
// one pending eviction timer; overwriting a key cancels the previous
// timer before arming a new one, so a stale timer can never delete a
// freshly written value. The cache is a performance layer only: every
// caller must behave correctly when it always misses.
package cache

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	createdAt time.Time
	ttl       time.Duration
	timer     *time.Timer
}

// expiresAt returns the expiry instant; ok is false when the entry
// never expires (ttl <= 0).
func (e *entry) expiresAt() (time.Time, bool) {
	if e.ttl <= 0 {
		return time.Time{}, false
	}
	return e.createdAt.Add(e.ttl), true
}

// Stats is a point-in-time snapshot of the cache contents.
type Stats struct {
	TotalEntries   int   `json:"total_entries"`
	ValidEntries   int   `json:"valid_entries"`
	ExpiredEntries int   `json:"expired_entries"`
	EstimatedBytes int   `json:"estimated_bytes"`
	Hits           int64 `json:"hits"`
	Misses         int64 `json:"misses"`
}

// Cache is a key/value store with per-entry TTLs. All operations are
// atomic with respect to their own key.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	hits    int64
	misses  int64

	now func() time.Time // swapped in tests
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Set stores value under key. A ttl of zero or less stores the value
// with no automatic eviction. Any existing entry and its pending
// eviction are replaced atomically.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok && old.timer != nil {
		old.timer.Stop()
	}

	e := &entry{value: value, createdAt: c.now(), ttl: ttl}
	if ttl > 0 {
		e.timer = time.AfterFunc(ttl, func() { c.evict(key, e) })
	}
	c.entries[key] = e
}

// evict is the scheduled eviction path. It removes the entry only if it
// is still the one the timer was armed for.
func (c *Cache) evict(key string, e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.entries[key]; ok && cur == e {
		delete(c.entries, key)
	}
}

// Get returns the stored value. An entry past its TTL is treated as
// absent and removed even if the scheduled eviction has not fired yet.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if exp, hasTTL := e.expiresAt(); hasTTL && !c.now().Before(exp) {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(c.entries, key)
		c.misses++
		return nil, false
	}

	c.hits++
	return e.value, true
}

// Has reports whether a live entry exists for key without touching the
// hit/miss counters.
func (c *Cache) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	if exp, hasTTL := e.expiresAt(); hasTTL && !c.now().Before(exp) {
		return false
	}
	return true
}

// Delete removes key and cancels its pending eviction.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(key)
}

// Clear removes every entry and cancels all pending evictions.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
	c.entries = make(map[string]*entry)
}

// Close releases the cache at process shutdown.
func (c *Cache) Close() {
	c.Clear()
}

// KeysByPrefix returns the keys of live entries under prefix.
func (c *Cache) KeysByPrefix(prefix string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	var keys []string
	for key, e := range c.entries {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if exp, hasTTL := e.expiresAt(); hasTTL && !now.Before(exp) {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// DeleteByPrefix removes every entry under prefix and returns how many
// were removed. Supports namespaced invalidation without knowing the
// exact keys.
func (c *Cache) DeleteByPrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.remove(key)
			removed++
		}
	}
	return removed
}

// Stats reports entry counts, the valid/expired split, and a rough
// memory estimate based on the JSON size of stored values.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{Hits: c.hits, Misses: c.misses}
	now := c.now()
	for key, e := range c.entries {
		stats.TotalEntries++
		if exp, hasTTL := e.expiresAt(); hasTTL && !now.Before(exp) {
			stats.ExpiredEntries++
		} else {
			stats.ValidEntries++
		}
		stats.EstimatedBytes += len(key) + approxSize(e.value)
	}
	return stats
}

// remove assumes the write lock is held.
func (c *Cache) remove(key string) {
	if e, ok := c.entries[key]; ok {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(c.entries, key)
	}
}

// approxSize estimates a value's footprint. Values that cannot be
// marshalled count as zero; the estimate degrades, the cache does not.
func approxSize(v interface{}) int {
	b, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	return len(b)
}
