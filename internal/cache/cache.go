// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package cache provides a bounded, concurrency-safe LRU map. Vireo keeps
// compiled shader bytecode in it so pipelines rebuilt from the same WGSL
// skip the compiler.
package cache

import "sync"

// DefaultCapacity is the capacity New uses for a non-positive argument.
const DefaultCapacity = 128

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Len       int
	Capacity  int
}

// HitRate returns hits over lookups, or zero without lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// LRU is a map holding at most Capacity entries. Adding to a full cache
// evicts the least recently used entry.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]*entry[K, V]
	order    list[K, V]

	hits, misses, evictions uint64
}

// New returns an empty cache holding up to capacity entries.
func New[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LRU[K, V]{
		capacity: capacity,
		items:    make(map[K]*entry[K, V], capacity),
	}
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		c.hits++
		c.order.moveToFront(e)
		return e.value, true
	}
	c.misses++
	var zero V
	return zero, false
}

// Add stores value under key, replacing an existing value.
func (c *LRU[K, V]) Add(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.add(key, value)
}

func (c *LRU[K, V]) add(key K, value V) {
	if e, ok := c.items[key]; ok {
		e.value = value
		c.order.moveToFront(e)
		return
	}
	for c.order.len >= c.capacity {
		oldest := c.order.back
		c.order.remove(oldest)
		delete(c.items, oldest.key)
		c.evictions++
	}
	e := &entry[K, V]{key: key, value: value}
	c.order.pushFront(e)
	c.items[key] = e
}

// GetOrAdd returns the cached value for key, or calls create and caches
// its result. Errors are returned uncached. create runs without the lock
// held, so concurrent misses on one key may each call it.
func (c *LRU[K, V]) GetOrAdd(key K, create func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := create()
	if err != nil {
		return v, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		c.order.moveToFront(e)
		return e.value, nil
	}
	c.add(key, v)
	return v, nil
}

// Remove deletes key and reports whether it was present.
func (c *LRU[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return false
	}
	c.order.remove(e)
	delete(c.items, key)
	return true
}

// Purge drops every entry. Counters are kept.
func (c *LRU[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*entry[K, V], c.capacity)
	c.order = list[K, V]{}
}

func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.len
}

func (c *LRU[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Len:       c.order.len,
		Capacity:  c.capacity,
	}
}
