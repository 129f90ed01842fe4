package cache

import (
	"context"
	"sync"
	"time"
)

// Clock reports the current time. Tests inject a fake one.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// TTLCache is a size-bounded cache whose entries expire after ttl.
// Invalidate bumps a generation so entries written before it are never served.
type TTLCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]*cacheEntry[V]
	order   []K
	maxSize int
	ttl     time.Duration
	clock   Clock
	gen     uint64
}

type cacheEntry[V any] struct {
	value     V
	timestamp time.Time
	gen       uint64
}

func NewTTLCache[K comparable, V any](maxSize int, ttl time.Duration, clock Clock) *TTLCache[K, V] {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if clock == nil {
		clock = SystemClock
	}
	return &TTLCache[K, V]{
		entries: make(map[K]*cacheEntry[V]),
		order:   make([]K, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
		clock:   clock,
	}
}

func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	currentGen := c.gen
	c.mu.RUnlock()

	var zero V
	if !exists {
		return zero, false
	}

	if c.clock.Now().Sub(entry.timestamp) >= c.ttl || entry.gen != currentGen {
		c.mu.Lock()
		if c.entries[key] == entry {
			delete(c.entries, key)
			c.removeFromOrder(key)
		}
		c.mu.Unlock()
		return zero, false
	}

	return entry.value, true
}

func (c *TTLCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putLocked(key, value)
}

func (c *TTLCache[K, V]) putLocked(key K, value V) {
	if _, exists := c.entries[key]; exists {
		c.removeFromOrder(key)
	} else if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = &cacheEntry[V]{
		value:     value,
		timestamp: c.clock.Now(),
		gen:       c.gen,
	}
	c.order = append(c.order, key)
}

// GetOrLoad returns the cached value or calls load and caches its result.
// Errors are not cached.
func (c *TTLCache[K, V]) GetOrLoad(ctx context.Context, key K, load func(context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	v, err := load(ctx)
	if err != nil {
		var zero V
		return zero, err
	}

	// A value loaded across an Invalidate is returned but not cached.
	c.mu.Lock()
	if c.gen == gen {
		c.putLocked(key, v)
	}
	c.mu.Unlock()
	return v, nil
}

func (c *TTLCache[K, V]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*cacheEntry[V])
	c.order = c.order[:0]
	c.gen++
}

func (c *TTLCache[K, V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *TTLCache[K, V]) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *TTLCache[K, V]) removeFromOrder(key K) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
