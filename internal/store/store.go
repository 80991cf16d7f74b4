// Package store holds the canonical client-side copies of server collections.
//
// A collection is replaced wholesale by every successful fetch. There is no ordering
// between concurrent fetches: the last response to arrive wins.
package store

import (
	"sync"
	"time"
)

// Collection is the canonical projection of one server list.
type Collection[K comparable, T any] struct {
	items       []T
	index       map[K]int
	key         func(T) K
	loaded      bool
	refreshedAt time.Time
	mu          sync.RWMutex
}

func NewCollection[K comparable, T any](key func(T) K) *Collection[K, T] {
	return &Collection[K, T]{
		index: make(map[K]int),
		key:   key,
	}
}

// Replace swaps the content of the collection for items.
func (c *Collection[K, T]) Replace(items []T) {
	index := make(map[K]int, len(items))
	copied := make([]T, len(items))
	copy(copied, items)
	for i, item := range copied {
		index[c.key(item)] = i
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = copied
	c.index = index
	c.loaded = true
	c.refreshedAt = time.Now()
}

// List returns a copy of the items in server order.
func (c *Collection[K, T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Collection[K, T]) Get(k K) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, found := c.index[k]
	if !found {
		var zero T
		return zero, ErrRecordNotFound
	}
	return c.items[i], nil
}

func (c *Collection[K, T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Loaded reports whether at least one fetch completed.
func (c *Collection[K, T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *Collection[K, T]) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}
