// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"sync"
	"sync/atomic"
)

// DefaultCacheLimit is the soft limit of the package compile cache.
const DefaultCacheLimit = 64

type cacheKey struct {
	stage  Stage
	source string
}

type cacheEntry struct {
	module *Module
	atime  int64
}

// Cache memoizes successful compilations by stage and source.
// Failed compilations are not cached. Cache is safe for concurrent use.
type Cache struct {
	mu        sync.Mutex
	entries   map[cacheKey]*cacheEntry
	softLimit int
	tick      int64

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCache creates a cache holding about softLimit modules.
// A softLimit of 0 means unlimited.
func NewCache(softLimit int) *Cache {
	return &Cache{
		entries:   make(map[cacheKey]*cacheEntry),
		softLimit: softLimit,
	}
}

// Compile returns the cached module for (stage, source), compiling it on a
// miss. The compiler runs outside the lock; concurrent misses for the same
// kernel may compile it twice.
func (c *Cache) Compile(stage Stage, source string) (*Module, error) {
	key := cacheKey{stage: stage, source: source}

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.tick++
		e.atime = c.tick
		c.mu.Unlock()
		c.hits.Add(1)
		return e.module, nil
	}
	c.mu.Unlock()
	c.misses.Add(1)

	m, err := compile(stage, source)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick++
	c.entries[key] = &cacheEntry{module: m, atime: c.tick}
	if c.softLimit > 0 && len(c.entries) > c.softLimit {
		c.evictOldest()
	}
	return m, nil
}

// Len returns the number of cached modules.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the hit and miss counts.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Clear drops every cached module.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]*cacheEntry)
	c.tick = 0
}

// evictOldest shrinks the cache to three quarters of the soft limit,
// dropping the least recently used modules. Caller must hold c.mu.
func (c *Cache) evictOldest() {
	target := c.softLimit * 3 / 4
	if target < 1 {
		target = 1
	}
	for len(c.entries) > target {
		var (
			oldest cacheKey
			atime  int64 = -1
		)
		for k, e := range c.entries {
			if atime < 0 || e.atime < atime {
				oldest, atime = k, e.atime
			}
		}
		delete(c.entries, oldest)
	}
}
