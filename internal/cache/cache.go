package cache

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache miss")

// Page is a rendered response stored verbatim.
type Page struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// PageCache is a TTL key/value store for rendered pages. Concurrent Set calls
// on one key are last-writer-wins.
type PageCache interface {
	Get(ctx context.Context, key string) (*Page, error)
	Set(ctx context.Context, key string, page *Page, ttl time.Duration) error
	// Clear drops every entry immediately.
	Clear(ctx context.Context) error
	Close() error
}
