// SPDX-License-Identifier: MIT

// Package cache provides a small in-memory cache with TTL support, used to
// keep recently rendered QR images around for repeated requests.
package cache

import (
	"sync"
	"time"
)

// Cache provides thread-safe caching with expiration support.
type Cache[V any] interface {
	// Get retrieves a value from the cache. Returns false if not found or expired.
	Get(key string) (V, bool)
	// Set stores a value in the cache with the specified TTL.
	Set(key string, value V, ttl time.Duration)
	// Delete removes a value from the cache.
	Delete(key string)
	// Clear removes all values from the cache.
	Clear()
	// Stats returns cache statistics.
	Stats() Stats
	// Stop releases background resources. Safe to call more than once.
	Stop()
}

// Stats holds cache performance counters.
type Stats struct {
	Hits        int64 // successful Get operations
	Misses      int64 // Get operations that found nothing or an expired entry
	Sets        int64
	Evictions   int64 // entries removed by expiry or by the size bound
	CurrentSize int
}

type entry[V any] struct {
	value      V
	expiration time.Time
}

func (e *entry[V]) expiredAt(now time.Time) bool {
	return now.After(e.expiration)
}

// Options tunes a memory cache.
type Options struct {
	// CleanupInterval determines how often expired entries are removed.
	// Zero disables the background janitor.
	CleanupInterval time.Duration
	// MaxEntries bounds the number of entries. Zero means unbounded.
	MaxEntries int
}

type memoryCache[V any] struct {
	mu         sync.Mutex
	entries    map[string]*entry[V]
	stats      Stats
	maxEntries int
	now        func() time.Time

	janitor  *janitor
	stopOnce sync.Once
}

// NewMemory creates a new in-memory cache. When CleanupInterval is positive a
// janitor goroutine runs until Stop is called.
func NewMemory[V any](opts Options) Cache[V] {
	c := &memoryCache[V]{
		entries:    make(map[string]*entry[V]),
		maxEntries: opts.MaxEntries,
		now:        time.Now,
	}

	if opts.CleanupInterval > 0 {
		c.janitor = &janitor{
			interval: opts.CleanupInterval,
			stop:     make(chan struct{}),
			done:     make(chan struct{}),
		}
		go c.janitor.run(c.deleteExpired)
	}

	return c
}

func (c *memoryCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, found := c.entries[key]
	if !found {
		c.stats.Misses++
		return zero, false
	}

	if e.expiredAt(c.now()) {
		delete(c.entries, key)
		c.stats.Evictions++
		c.stats.Misses++
		return zero, false
	}

	c.stats.Hits++
	return e.value, true
}

func (c *memoryCache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}

	c.entries[key] = &entry[V]{
		value:      value,
		expiration: c.now().Add(ttl),
	}
	c.stats.Sets++
}

// evictOneLocked drops expired entries, or failing that, the entry closest
// to expiry. Caller must hold c.mu.
func (c *memoryCache[V]) evictOneLocked() {
	now := c.now()
	var (
		victim   string
		earliest time.Time
	)
	removed := 0
	for key, e := range c.entries {
		if e.expiredAt(now) {
			delete(c.entries, key)
			removed++
			continue
		}
		if victim == "" || e.expiration.Before(earliest) {
			victim, earliest = key, e.expiration
		}
	}
	if removed == 0 && victim != "" {
		delete(c.entries, victim)
		removed = 1
	}
	c.stats.Evictions += int64(removed)
}

func (c *memoryCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *memoryCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry[V])
}

func (c *memoryCache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.CurrentSize = len(c.entries)
	return stats
}

// deleteExpired removes all expired entries and returns how many were removed.
func (c *memoryCache[V]) deleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	count := 0
	for key, e := range c.entries {
		if e.expiredAt(now) {
			delete(c.entries, key)
			count++
		}
	}

	c.stats.Evictions += int64(count)
	return count
}

func (c *memoryCache[V]) Stop() {
	if c.janitor == nil {
		return
	}
	c.stopOnce.Do(func() {
		close(c.janitor.stop)
		<-c.janitor.done
	})
}

// janitor performs periodic cleanup of expired entries.
type janitor struct {
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func (j *janitor) run(sweep func() int) {
	defer close(j.done)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sweep()
		case <-j.stop:
			return
		}
	}
}

type noOpCache[V any] struct{}

// NewNoOp creates a cache that doesn't cache anything (cache.enabled=false).
func NewNoOp[V any]() Cache[V] {
	return noOpCache[V]{}
}

func (noOpCache[V]) Get(string) (V, bool) {
	var zero V
	return zero, false
}
func (noOpCache[V]) Set(string, V, time.Duration) {}
func (noOpCache[V]) Delete(string)                {}
func (noOpCache[V]) Clear()                       {}
func (noOpCache[V]) Stats() Stats                 { return Stats{} }
func (noOpCache[V]) Stop()                        {}
