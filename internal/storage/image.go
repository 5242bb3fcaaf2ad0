package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrNotImage      = errors.New("file is not an image")
	ErrImageTooLarge = errors.New("image is too large")
)

const imagePrefix = "posts/"

// SaveImage sniffs r, rejects anything that is not an image and stores it
// under a fresh key, which it returns.
func SaveImage(ctx context.Context, s Storage, r io.Reader, maxSize int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return "", ErrImageTooLarge
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}

	key := imagePrefix + uuid.NewString() + mt.Extension()
	if err := s.Write(ctx, key, bytes.NewReader(data), int64(len(data)), mt.String()); err != nil {
		return "", err
	}
	return key, nil
}

// ContentType guesses the MIME type of a stored blob from its first bytes.
func ContentType(head []byte) string {
	return mimetype.Detect(head).String()
}
