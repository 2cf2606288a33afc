// Package cache provides a small keyed snapshot cache with explicit
// invalidation. Mutation call sites never touch cached entries directly;
// they publish an invalidation for a key and subscribers react.
package cache

import "sync"

// Cache stores one snapshot per key. The zero value is not usable; use New.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]V
	subs    []func(key string)
}

// New returns an empty cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[string]V)}
}

// Get returns the cached snapshot for key, if present.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Put stores a snapshot for key.
func (c *Cache[V]) Put(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

// Invalidate drops the snapshot for key and notifies subscribers.
// Invalidating an absent key still notifies; subscribers treat the signal as
// "refetch on next read", not as a statement about prior cache state.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	subs := make([]func(string), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(key)
	}
}

// Subscribe registers fn to run after every invalidation. Callbacks run on
// the invalidating goroutine and must not block.
func (c *Cache[V]) Subscribe(fn func(key string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}
