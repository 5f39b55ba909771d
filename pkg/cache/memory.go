package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

const defaultMemoryTTL = 24 * time.Hour

type memoryItem struct {
	data     []byte
	expireAt time.Time
	lastUsed time.Time
}

// MemoryCache is a process-local Service. Values are stored as JSON so callers
// never share mutable state with the cache. The least recently used key is evicted at capacity.
type MemoryCache struct {
	mu      sync.Mutex
	data    map[string]*memoryItem
	maxSize int
	now     func() time.Time
}

type MemoryOption func(*MemoryCache)

func WithMemoryMaxSize(n int) MemoryOption {
	return func(c *MemoryCache) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// WithMemoryClock replaces time.Now, for tests.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) { c.now = now }
}

func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{data: make(map[string]*memoryItem), maxSize: 1000, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}
	if ttl <= 0 {
		ttl = defaultMemoryTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if _, ok := c.data[key]; !ok && len(c.data) >= c.maxSize {
		c.evictLRU()
	}
	c.data[key] = &memoryItem{data: b, expireAt: now.Add(ttl), lastUsed: now}
	return nil
}

func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	item, ok := c.data[key]
	now := c.now()
	if ok && !now.Before(item.expireAt) {
		delete(c.data, key)
		ok = false
	}
	if ok {
		item.lastUsed = now
	}
	c.mu.Unlock()
	if !ok {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(item.data, dest); err != nil {
		return fmt.Errorf("cache unmarshal %s: %w", key, err)
	}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

// Len returns the number of stored keys, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

func (c *MemoryCache) Close() error { return nil }

func (c *MemoryCache) evictLRU() {
	var oldest string
	var oldestAt time.Time
	for k, it := range c.data {
		if oldest == "" || it.lastUsed.Before(oldestAt) {
			oldest, oldestAt = k, it.lastUsed
		}
	}
	delete(c.data, oldest)
}

var _ Service = (*MemoryCache)(nil)
