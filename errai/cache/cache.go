// Package cache holds derived per-file data keyed by an identity and
// validated against the modification stamp and scope it was computed for.
//
// Readers never block: every write publishes a new immutable snapshot of the
// entry table.
package cache

import "sync/atomic"

type entry[V any] struct {
	stamp int64
	scope any
	value V
}

// Cache maps keys to values computed at a given stamp within a given scope.
// The scope is compared by identity (==), typically a node pointer.
type Cache[K comparable, V any] struct {
	snapshot atomic.Pointer[map[K]entry[V]]

	// Hits and Misses count FindOrCompute outcomes.
	Hits, Misses atomic.Int64
}

func (c *Cache[K, V]) load() map[K]entry[V] {
	if m := c.snapshot.Load(); m != nil {
		return *m
	}
	return nil
}

// Lookup returns the value stored for key if it was computed at stamp within
// scope.
func (c *Cache[K, V]) Lookup(key K, stamp int64, scope any) (V, bool) {
	e, ok := c.load()[key]
	if !ok || e.stamp != stamp || e.scope != scope {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Store records value for key, replacing whatever was there.
func (c *Cache[K, V]) Store(key K, stamp int64, scope any, value V) {
	c.update(func(m map[K]entry[V]) {
		m[key] = entry[V]{stamp: stamp, scope: scope, value: value}
	})
}

// FindOrCompute returns the cached value for key when stamp and scope match,
// and otherwise calls compute and stores its result. Concurrent misses may
// compute the same value twice; the last store wins.
func (c *Cache[K, V]) FindOrCompute(key K, stamp int64, scope any, compute func() V) V {
	if v, ok := c.Lookup(key, stamp, scope); ok {
		c.Hits.Add(1)
		return v
	}
	c.Misses.Add(1)
	v := compute()
	c.Store(key, stamp, scope, v)
	return v
}

// Evict drops every entry whose key satisfies match.
func (c *Cache[K, V]) Evict(match func(K) bool) {
	c.update(func(m map[K]entry[V]) {
		for k := range m {
			if match(k) {
				delete(m, k)
			}
		}
	})
}

// Len returns the number of stored entries, valid or not.
func (c *Cache[K, V]) Len() int {
	return len(c.load())
}

func (c *Cache[K, V]) update(mutate func(map[K]entry[V])) {
	for {
		old := c.snapshot.Load()
		next := make(map[K]entry[V])
		if old != nil {
			for k, v := range *old {
				next[k] = v
			}
		}
		mutate(next)
		if c.snapshot.CompareAndSwap(old, &next) {
			return
		}
	}
}
