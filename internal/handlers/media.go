package handlers

import (
	"bufio"
	"errors"
	"io"
	"net/http"
	"strings"

	"quillpost/internal/storage"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	blobs storage.Storage
}

func NewMediaHandler(blobs storage.Storage) *MediaHandler {
	return &MediaHandler{blobs: blobs}
}

// Serve streams an uploaded image from the blob store (GET /media/*key).
func (h *MediaHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" || strings.Contains(key, "..") {
		NotFound(c, "no such file")
		return
	}

	rc, err := h.blobs.Read(c.Request.Context(), key)
	if errors.Is(err, storage.ErrNotExist) {
		NotFound(c, "no such file")
		return
	}
	if err != nil {
		RespondError(c, err, nil)
		return
	}
	defer rc.Close()

	br := bufio.NewReaderSize(rc, 3072)
	head, _ := br.Peek(3072)

	c.Header("Content-Type", storage.ContentType(head))
	c.Header("Cache-Control", "public, max-age=86400")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Status(http.StatusOK)
	io.Copy(c.Writer, br)
}

// Health is the liveness probe.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
