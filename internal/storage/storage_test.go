package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

var gifBytes = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\x00\x00\x00\xff\xff\xff!\xf9\x04\x01\x00\x00\x00\x00,\x00\x00\x00\x00\x01\x00\x01\x00\x00\x02\x02D\x01\x00;")

func TestLocalStorageRoundTrip(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	ctx := context.Background()

	if err := s.Write(ctx, "posts/a.txt", strings.NewReader("hello"), 5, "text/plain"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	ok, err := s.Exists(ctx, "posts/a.txt")
	if err != nil || !ok {
		t.Fatalf("expected blob to exist, ok=%v err=%v", ok, err)
	}

	rc, err := s.Read(ctx, "posts/a.txt")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "hello" {
		t.Errorf("unexpected content %q", data)
	}

	if err := s.Delete(ctx, "posts/a.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Read(ctx, "posts/a.txt"); !errors.Is(err, ErrNotExist) {
		t.Errorf("expected ErrNotExist after delete, got %v", err)
	}
}

func TestLocalStorageContainsTraversal(t *testing.T) {
	base := t.TempDir()
	s, _ := NewLocalStorage(base)

	if got := s.fullPath("../../etc/passwd"); !strings.HasPrefix(got, s.basePath) {
		t.Errorf("path escaped base: %s", got)
	}
}

func TestSaveImage(t *testing.T) {
	s, _ := NewLocalStorage(t.TempDir())
	ctx := context.Background()

	key, err := SaveImage(ctx, s, strings.NewReader(string(gifBytes)), 1<<20)
	if err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	if !strings.HasPrefix(key, "posts/") || !strings.HasSuffix(key, ".gif") {
		t.Errorf("unexpected key %q", key)
	}
	if ok, _ := s.Exists(ctx, key); !ok {
		t.Errorf("expected stored image")
	}
}

func TestSaveImageRejects(t *testing.T) {
	s, _ := NewLocalStorage(t.TempDir())
	ctx := context.Background()

	if _, err := SaveImage(ctx, s, strings.NewReader("just some text"), 1<<20); !errors.Is(err, ErrNotImage) {
		t.Errorf("expected ErrNotImage, got %v", err)
	}
	if _, err := SaveImage(ctx, s, strings.NewReader(string(gifBytes)), 10); !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("expected ErrImageTooLarge, got %v", err)
	}
}
