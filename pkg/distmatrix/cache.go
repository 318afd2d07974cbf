// pkg/distmatrix/cache.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package distmatrix

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is small enough that bouncing between a checkpoint's
// synthetic-start environment and its parent environment during replanning
// stays warm, without letting the cache grow unbounded across a long
// editing session.
const DefaultCacheSize = 8

// Cache is the process-wide, environment-hash-keyed cache of computed
// matrices: the only mutable global state the planner keeps. An RWMutex
// wraps the LRU's own internal locking, which only protects its eviction
// bookkeeping, so that concurrent per-drone solver reads against a stable
// cache take the shared read lock while a miss's recompute-and-insert
// takes the exclusive write lock and replaces the entry atomically.
type Cache struct {
	mu    sync.RWMutex
	inner *lru.Cache[uint64, *Matrix]
}

// NewCache creates a Cache holding at most size entries.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[uint64, *Matrix](size)
	if err != nil {
		// Only returned for a non-positive size, which is excluded above.
		panic(err)
	}
	return &Cache{inner: c}
}

// Get returns the matrix cached under hash, computing and inserting it via
// Compute(ctx, in) on a miss.
func (c *Cache) Get(ctx context.Context, hash uint64, in Input) (*Matrix, error) {
	c.mu.RLock()
	if m, ok := c.inner.Get(hash); ok {
		c.mu.RUnlock()
		return m, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another writer may have populated this entry while we waited for the
	// write lock.
	if m, ok := c.inner.Get(hash); ok {
		return m, nil
	}

	m, err := Compute(ctx, in)
	if err != nil {
		return nil, err
	}
	c.inner.Add(hash, m)
	return m, nil
}

// Invalidate drops the entry for hash, if present. Called explicitly when
// the environment that produced it is edited.
func (c *Cache) Invalidate(hash uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.Remove(hash)
}

// Clear empties the cache entirely.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.Purge()
}

// Len reports the number of entries currently cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inner.Len()
}
