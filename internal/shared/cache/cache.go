// Package cache is a size-bounded key/value store with per-entry TTL.
//
// Entries are evicted in insertion order once the cache is full, and lazily
// on Get once their TTL has elapsed. Staleness up to the TTL is accepted.
package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

type entry[V any] struct {
	key      string
	value    V
	storedAt time.Time
	ttl      time.Duration
	elem     *list.Element
}

type Cache[V any] struct {
	mu         sync.Mutex
	maxSize    int
	defaultTTL time.Duration
	entries    map[string]*entry[V]
	order      *list.List // keys, oldest first
	now        func() time.Time

	hits, misses, evictions uint64
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Size      int    `json:"size"`
	MaxSize   int    `json:"max_size"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

func New[V any](maxSize int, defaultTTL time.Duration) *Cache[V] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Cache[V]{
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		entries:    make(map[string]*entry[V]),
		order:      list.New(),
		now:        time.Now,
	}
}

// Set stores value under key. A ttl <= 0 uses the cache default. Overwriting
// a key keeps its original insertion position.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.storedAt = c.now()
		e.ttl = ttl
		return
	}

	if len(c.entries) >= c.maxSize {
		if oldest := c.order.Front(); oldest != nil {
			c.remove(oldest.Value.(string))
			c.evictions++
		}
	}

	e := &entry[V]{key: key, value: value, storedAt: c.now(), ttl: ttl}
	e.elem = c.order.PushBack(key)
	c.entries[key] = e
}

// Get returns the value for key, or false if it is absent or expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return zero, false
	}

	if c.now().Sub(e.storedAt) > e.ttl {
		c.remove(key)
		c.misses++
		return zero, false
	}

	c.hits++
	return e.value, true
}

// Invalidate removes every key containing pattern; an empty pattern clears
// the cache. It returns the number of removed entries.
func (c *Cache[V]) Invalidate(pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pattern == "" {
		n := len(c.entries)
		c.entries = make(map[string]*entry[V])
		c.order.Init()
		return n
	}

	n := 0
	for key := range c.entries {
		if strings.Contains(key, pattern) {
			c.remove(key)
			n++
		}
	}
	return n
}

func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:      len(c.entries),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// caller holds c.mu
func (c *Cache[V]) remove(key string) {
	e, ok := c.entries[key]
	if !ok {
		return
	}
	c.order.Remove(e.elem)
	delete(c.entries, key)
}
