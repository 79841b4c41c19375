package cache

import "sync"

// Generational is a mark-and-sweep cache with an explicit trim trigger.
//
// Invariants:
//   - every key in the recently-used set is present in entries
//   - entries outside the recently-used set are evicted by the next Trim
//
// Generational is safe for concurrent use, though its owners drive it from a
// single goroutine.
type Generational[K comparable, V any] struct {
	mu           sync.Mutex
	entries      map[K]V
	recentlyUsed map[K]struct{}

	hits      uint64
	misses    uint64
	evictions uint64
	trims     uint64
}

// NewGenerational creates an empty generational cache.
func NewGenerational[K comparable, V any]() *Generational[K, V] {
	return &Generational[K, V]{
		entries:      make(map[K]V),
		recentlyUsed: make(map[K]struct{}),
	}
}

// Allocate returns the value stored under key, calling create to build it
// on a miss. The key is marked as recently used in both cases.
//
// The second result reports whether create was called. create runs at most
// once per key for as long as the entry survives trims.
func (c *Generational[K, V]) Allocate(key K, create func() V) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.entries[key]
	created := false
	if ok {
		c.hits++
	} else {
		c.misses++
		value = create()
		c.entries[key] = value
		created = true
	}
	c.recentlyUsed[key] = struct{}{}

	return value, created
}

// Get looks up key without marking it. It is meant for callers that already
// allocated the key earlier in the same period.
func (c *Generational[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.entries[key]
	return value, ok
}

// Touch marks an existing key as recently used.
// Returns false if the key is not cached.
func (c *Generational[K, V]) Touch(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return false
	}
	c.recentlyUsed[key] = struct{}{}
	return true
}

// Remove deletes key from the cache. Returns false if it was not cached.
func (c *Generational[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	delete(c.recentlyUsed, key)
	c.evictions++
	return true
}

// Contains reports whether key is cached, without marking it.
func (c *Generational[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[key]
	return ok
}

// Trim drops every entry not used since the previous Trim and clears the
// recently-used set. Returns the number of evicted entries.
func (c *Generational[K, V]) Trim() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for key := range c.entries {
		if _, ok := c.recentlyUsed[key]; !ok {
			delete(c.entries, key)
			evicted++
		}
	}
	clear(c.recentlyUsed)

	c.evictions += uint64(evicted) //nolint:gosec // evicted is non-negative
	c.trims++
	return evicted
}

// Clear removes all entries and starts a new period.
func (c *Generational[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	clear(c.recentlyUsed)
}

// Len returns the number of cached entries.
func (c *Generational[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// RecentlyUsed returns the number of keys touched in the current period.
func (c *Generational[K, V]) RecentlyUsed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.recentlyUsed)
}

// Range calls fn for every cached entry until fn returns false.
// fn must not call back into the cache.
func (c *Generational[K, V]) Range(fn func(key K, value V) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, v := range c.entries {
		if !fn(k, v) {
			return
		}
	}
}

// Stats contains cache statistics for monitoring.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// RecentlyUsed is the number of entries touched in the current period.
	RecentlyUsed int
	// Hits is the number of Allocate calls served from the cache.
	Hits uint64
	// Misses is the number of Allocate calls that created a value.
	Misses uint64
	// HitRate is Hits / (Hits + Misses), or 0 with no traffic.
	HitRate float64
	// Evictions is the number of entries dropped by Trim.
	Evictions uint64
	// Trims is the number of completed Trim calls.
	Trims uint64
}

// Stats returns current cache statistics.
func (c *Generational[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var hitRate float64
	if total := c.hits + c.misses; total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Len:          len(c.entries),
		RecentlyUsed: len(c.recentlyUsed),
		Hits:         c.hits,
		Misses:       c.misses,
		HitRate:      hitRate,
		Evictions:    c.evictions,
		Trims:        c.trims,
	}
}

// ResetStats resets all statistics counters to zero.
func (c *Generational[K, V]) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hits = 0
	c.misses = 0
	c.evictions = 0
	c.trims = 0
}
