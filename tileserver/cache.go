package tileserver

import (
	"container/list"
	"sync"
)

type lruEntry[V any] struct {
	key   string
	value V
}

// lruCache is a thread-safe fixed-capacity cache. When the cache reaches its
// capacity, the least recently used entry is evicted.
type lruCache[V any] struct {
	capacity int
	items    map[string]*list.Element
	eviction *list.List
	mu       sync.Mutex
}

// newLRUCache creates a new LRU cache with the specified capacity.
// The capacity must be positive, otherwise it panics.
func newLRUCache[V any](capacity int) *lruCache[V] {
	if capacity <= 0 {
		panic("LRU cache capacity must be positive")
	}
	return &lruCache[V]{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
	}
}

// Get retrieves a value from the cache and marks it as recently used.
func (c *lruCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.eviction.MoveToFront(elem)
		entry := elem.Value.(*lruEntry[V])
		return entry.value, true
	}

	var zero V
	return zero, false
}

// Put adds or updates a value in the cache. If the cache is at capacity, the
// least recently used entry is evicted.
func (c *lruCache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.eviction.MoveToFront(elem)
		elem.Value.(*lruEntry[V]).value = value
		return
	}

	elem := c.eviction.PushFront(&lruEntry[V]{key: key, value: value})
	c.items[key] = elem

	if c.eviction.Len() > c.capacity {
		c.evictOldest()
	}
}

func (c *lruCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eviction.Len()
}

// Must be called with lock held.
func (c *lruCache[V]) evictOldest() {
	elem := c.eviction.Back()
	if elem == nil {
		return
	}
	c.eviction.Remove(elem)
	delete(c.items, elem.Value.(*lruEntry[V]).key)
}
