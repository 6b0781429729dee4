// Package cache holds the bounded LRU that remembers corpus query results.
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// Key identifies one cached query. Stamp is the corpus state the result
// was computed against; a lookup with a different stamp misses.
type Key struct {
	Query uint64
	Limit int
	Stamp uint64
}

// QueryHash hashes normalized query runes into Key.Query.
func QueryHash(query []rune) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(string(query))
	return d.Sum64()
}

// LRU is a thread-safe least-recently-used cache with a maximum size.
type LRU[V any] struct {
	maxSize int
	mu      sync.Mutex
	items   map[Key]*list.Element
	order   *list.List

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

type entry[V any] struct {
	key   Key
	value V
}

// Stats holds cache statistics
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int
	HitRate   float64
}

// NewLRU returns an LRU holding at most maxSize entries. A maxSize of zero
// or less returns nil; every method on a nil *LRU is a no-op miss.
func NewLRU[V any](maxSize int) *LRU[V] {
	if maxSize <= 0 {
		return nil
	}
	return &LRU[V]{
		maxSize: maxSize,
		items:   make(map[Key]*list.Element),
		order:   list.New(),
	}
}

// Get retrieves a value and marks it as recently used.
func (c *LRU[V]) Get(key Key) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		c.hits.Add(1)
		return elem.Value.(*entry[V]).value, true
	}
	c.misses.Add(1)
	return zero, false
}

// Put adds or replaces a value, evicting the least recently used entry
// when full.
func (c *LRU[V]) Put(key Key, value V) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*entry[V]).value = value
		return
	}

	c.items[key] = c.order.PushFront(&entry[V]{key: key, value: value})

	if c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*entry[V]).key)
		c.evictions.Add(1)
	}
}

// Len returns the number of cached entries.
func (c *LRU[V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear removes all entries and resets statistics
func (c *LRU[V]) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.items = make(map[Key]*list.Element)
	c.order.Init()
	c.mu.Unlock()

	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

// Stats returns cache statistics
func (c *LRU[V]) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	hits := c.hits.Load()
	misses := c.misses.Load()

	hitRate := float64(0)
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		Entries:   c.Len(),
		HitRate:   hitRate,
	}
}
