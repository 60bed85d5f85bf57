package thumbnail

import (
	"container/list"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache is a bounded LRU of generated thumbnails keyed by document ID.
// Concurrent requests for the same missing key share a single generation
// run; failed generations ("" results) are never cached so a later
// request can retry.
type Cache struct {
	mu      sync.Mutex
	max     int
	order   *list.List
	entries map[string]*list.Element

	group singleflight.Group
}

type cacheEntry struct {
	key   string
	value string
}

// NewCache returns a cache holding at most max thumbnails. A max below 1
// falls back to a single entry.
func NewCache(max int) *Cache {
	if max < 1 {
		max = 1
	}
	return &Cache{
		max:     max,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

// Get returns the cached thumbnail for key and marks it recently used.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.entries[key]
	if !ok {
		return "", false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).value, true
}

// Add stores a thumbnail, evicting the least recently used entry when
// the cache is full.
func (c *Cache) Add(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = value
		return
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, value: value})
	if c.order.Len() > c.max {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

// Remove drops a key, typically after its document is deleted.
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[key]; ok {
		c.order.Remove(elem)
		delete(c.entries, key)
	}
}

// Len returns the number of cached thumbnails.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// GetOrGenerate returns the cached thumbnail for key, running generate
// at most once across concurrent callers on a miss. A "" result is
// returned to every waiting caller but not cached.
func (c *Cache) GetOrGenerate(key string, generate func() string) string {
	if value, ok := c.Get(key); ok {
		return value
	}
	value, _, _ := c.group.Do(key, func() (interface{}, error) {
		// A racing caller may have filled the entry before we won
		// the flight.
		if value, ok := c.Get(key); ok {
			return value, nil
		}
		value := generate()
		if value != "" {
			c.Add(key, value)
		}
		return value, nil
	})
	return value.(string)
}
