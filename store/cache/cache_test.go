package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_BasicOperations(t *testing.T) {
	c := New(100, time.Minute)

	t.Run("SetAndGet", func(t *testing.T) {
		c.Set("key1", "value1", 0)

		val, ok := c.Get("key1")
		assert.True(t, ok)
		assert.Equal(t, "value1", val)
	})

	t.Run("GetNonExistent", func(t *testing.T) {
		val, ok := c.Get("nonexistent")
		assert.False(t, ok)
		assert.Nil(t, val)
	})

	t.Run("UpdateExisting", func(t *testing.T) {
		c.Set("key2", "original", 0)
		c.Set("key2", "updated", 0)

		val, ok := c.Get("key2")
		assert.True(t, ok)
		assert.Equal(t, "updated", val)
	})

	t.Run("Delete", func(t *testing.T) {
		c.Set("key3", "value3", 0)
		c.Delete("key3")

		_, ok := c.Get("key3")
		assert.False(t, ok)
	})
}

func TestCache_Expiration(t *testing.T) {
	c := New(100, 50*time.Millisecond)

	c.Set("expiring", "value", 50*time.Millisecond)

	val, ok := c.Get("expiring")
	assert.True(t, ok)
	assert.Equal(t, "value", val)

	time.Sleep(60 * time.Millisecond)

	val, ok = c.Get("expiring")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestCache_Eviction(t *testing.T) {
	c := New(3, time.Minute)

	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Set("c", 3, 0)

	// Touch "a" so "b" becomes the LRU entry.
	c.Get("a")
	c.Set("d", 4, 0)

	_, ok := c.Get("b")
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 3, c.Size())
}
