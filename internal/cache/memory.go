package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/iwvelando/payment-plans/pkg/constants"
)

// sweepInterval spaces the scans for expired entries done by Set.
const sweepInterval = time.Minute

type memoryEntry struct {
	data    []byte
	expires time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// MemoryCache is an in-process Cache. Values are stored JSON-encoded so
// callers get copies, matching the Redis behavior.
//
// Set drops expired entries at most once per sweepInterval, and whenever the
// cache is full. A full cache then evicts the entry closest to expiry.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	maxEntries int
	lastSweep  time.Time
	now        func() time.Time
}

// NewMemoryCache returns an empty in-process cache holding at most
// constants.DefaultCacheMaxEntries entries.
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithLimit(constants.DefaultCacheMaxEntries)
}

// NewMemoryCacheWithLimit returns an empty in-process cache holding at most
// maxEntries entries. A non-positive limit uses the default.
func NewMemoryCacheWithLimit(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = constants.DefaultCacheMaxEntries
	}
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get decodes the value stored under key into dest.
func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return ErrMiss
	}
	if entry.expired(c.now()) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return ErrMiss
	}
	return json.Unmarshal(entry.data, dest)
}

// Set stores value under key. A zero expiration never expires.
func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	now := c.now()
	entry := memoryEntry{data: data}
	if expiration > 0 {
		entry.expires = now.Add(expiration)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, exists := c.entries[key]
	full := !exists && len(c.entries) >= c.maxEntries
	if full || now.Sub(c.lastSweep) >= sweepInterval {
		c.sweep(now)
	}
	if !exists && len(c.entries) >= c.maxEntries {
		c.evict()
	}
	c.entries[key] = entry
	return nil
}

// sweep drops expired entries. Callers hold the write lock.
func (c *MemoryCache) sweep(now time.Time) {
	for key, entry := range c.entries {
		if entry.expired(now) {
			delete(c.entries, key)
		}
	}
	c.lastSweep = now
}

// evict drops the entry expiring soonest, preferring entries that expire at
// all. Callers hold the write lock.
func (c *MemoryCache) evict() {
	var victim string
	var victimEntry memoryEntry
	found := false
	for key, entry := range c.entries {
		if !found || sooner(entry, victimEntry) {
			victim, victimEntry, found = key, entry, true
		}
	}
	if found {
		delete(c.entries, victim)
	}
}

func sooner(a, b memoryEntry) bool {
	switch {
	case a.expires.IsZero():
		return false
	case b.expires.IsZero():
		return true
	default:
		return a.expires.Before(b.expires)
	}
}

// Len reports the number of stored entries, expired ones not yet swept included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close drops every entry.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}
