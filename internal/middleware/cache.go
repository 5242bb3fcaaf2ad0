package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"quillpost/internal/cache"
	"quillpost/internal/log"
	"quillpost/internal/metrics"

	"github.com/gin-gonic/gin"
)

const HeaderCache = "X-Cache"

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CachePage serves GET responses from pages for ttl after they were first
// rendered. The key is the request path plus raw query, so every feed page is
// cached on its own. Only 200 responses are stored.
func CachePage(pages cache.PageCache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		l := log.Ctx(ctx)
		key := c.Request.URL.Path + "?" + c.Request.URL.RawQuery

		page, err := pages.Get(ctx, key)
		switch {
		case err == nil:
			metrics.PageCacheLookups.WithLabelValues("hit").Inc()
			c.Header(HeaderCache, "HIT")
			c.Data(page.Status, page.ContentType, page.Body)
			c.Abort()
			return
		case !errors.Is(err, cache.ErrCacheMiss):
			l.Warn().Err(err).Str(log.FieldCache, key).Msg("page cache read failed")
		}
		metrics.PageCacheLookups.WithLabelValues("miss").Inc()

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Header(HeaderCache, "MISS")
		c.Next()

		if rec.Status() != http.StatusOK {
			return
		}
		entry := &cache.Page{
			Status:      rec.Status(),
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
		}
		if err := pages.Set(ctx, key, entry, ttl); err != nil {
			l.Warn().Err(err).Str(log.FieldCache, key).Msg("page cache write failed")
		}
	}
}
