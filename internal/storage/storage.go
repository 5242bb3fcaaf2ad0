package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotExist = errors.New("blob not found")

// Storage holds uploaded post images under opaque keys.
type Storage interface {
	// Write stores r under key. size is -1 when unknown.
	Write(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Read returns the blob; the caller closes it.
	Read(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
