package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// Runs only against a live server: REDIS_TEST_ADDRESS=localhost:6379 go test ./internal/cache
func newTestRedisCache(t *testing.T) *RedisPageCache {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDRESS")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDRESS not set")
	}
	c, err := NewRedisPageCache(RedisConfig{Address: addr, Prefix: "quillpost:test:" + t.Name()})
	if err != nil {
		t.Fatalf("NewRedisPageCache: %v", err)
	}
	t.Cleanup(func() {
		c.Clear(context.Background())
		c.Close()
	})
	return c
}

func TestRedisPageCacheRoundTrip(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()
	page := &Page{Status: 200, ContentType: "application/json", Body: []byte(`{"ok":true}`)}

	if err := c.Set(ctx, "/?", page, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "/?")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got.Body) != string(page.Body) || got.ContentType != page.ContentType {
		t.Errorf("unexpected page %+v", got)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := c.Get(ctx, "/?"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected miss after clear, got %v", err)
	}
}

func TestRedisPageCacheExpires(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "/?page=2", &Page{Status: 200}, 50*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(150 * time.Millisecond)
	if _, err := c.Get(ctx, "/?page=2"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected miss after ttl, got %v", err)
	}
}
