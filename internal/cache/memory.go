package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type memoryItem struct {
	page      *Page
	expiresAt time.Time
}

// MemoryPageCache keeps pages in a bounded in-process LRU.
type MemoryPageCache struct {
	lruCache *lru.Cache[string, memoryItem]
	now      func() time.Time
}

func NewMemoryPageCache(size int) (*MemoryPageCache, error) {
	if size <= 0 {
		size = 500
	}
	l, err := lru.New[string, memoryItem](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &MemoryPageCache{lruCache: l, now: time.Now}, nil
}

// WithClock replaces the time source, used by tests to step through TTL windows.
func (c *MemoryPageCache) WithClock(now func() time.Time) *MemoryPageCache {
	c.now = now
	return c
}

func (c *MemoryPageCache) Get(ctx context.Context, key string) (*Page, error) {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	if !c.now().Before(val.expiresAt) {
		c.lruCache.Remove(key)
		return nil, ErrCacheMiss
	}
	return val.page, nil
}

func (c *MemoryPageCache) Set(ctx context.Context, key string, page *Page, ttl time.Duration) error {
	c.lruCache.Add(key, memoryItem{
		page:      page,
		expiresAt: c.now().Add(ttl),
	})
	return nil
}

func (c *MemoryPageCache) Clear(ctx context.Context) error {
	c.lruCache.Purge()
	return nil
}

func (c *MemoryPageCache) Close() error {
	return nil
}

var _ PageCache = (*MemoryPageCache)(nil)
