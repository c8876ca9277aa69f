package tileserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRUCache_MissingKey(t *testing.T) {
	cache := newLRUCache[int](2)

	_, ok := cache.Get("missing")

	assert.False(t, ok)
}

func TestLRUCache_PutGet(t *testing.T) {
	cache := newLRUCache[int](2)

	cache.Put("a", 1)
	value, ok := cache.Get("a")

	assert.True(t, ok)
	assert.Equal(t, 1, value)
	assert.Equal(t, 1, cache.Len())
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := newLRUCache[int](2)
	cache.Put("a", 1)
	cache.Put("b", 2)

	// Touch "a" so "b" becomes the eviction candidate
	cache.Get("a")
	cache.Put("c", 3)

	_, bOK := cache.Get("b")
	aValue, aOK := cache.Get("a")
	cValue, cOK := cache.Get("c")
	assert.False(t, bOK, "Expected the least recently used entry to be evicted")
	assert.True(t, aOK)
	assert.True(t, cOK)
	assert.Equal(t, 1, aValue)
	assert.Equal(t, 3, cValue)
	assert.Equal(t, 2, cache.Len())
}

func TestLRUCache_UpdateDoesNotGrow(t *testing.T) {
	cache := newLRUCache[string](2)
	cache.Put("a", "old")

	cache.Put("a", "new")

	value, ok := cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "new", value)
	assert.Equal(t, 1, cache.Len())
}

func TestLRUCache_PanicsOnNonPositiveCapacity(t *testing.T) {
	assert.Panics(t, func() { newLRUCache[int](0) })
}
