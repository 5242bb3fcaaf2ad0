package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quillpost/internal/cache"

	"github.com/gin-gonic/gin"
)

func newCachedEngine(t *testing.T, status *int, calls *int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pages, err := cache.NewMemoryPageCache(8)
	if err != nil {
		t.Fatalf("NewMemoryPageCache: %v", err)
	}
	r := gin.New()
	r.GET("/", CachePage(pages, time.Minute), func(c *gin.Context) {
		*calls++
		c.String(*status, "render %d", *calls)
	})
	return r
}

func serve(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestCachePageReplaysBody(t *testing.T) {
	status, calls := http.StatusOK, 0
	r := newCachedEngine(t, &status, &calls)

	first := serve(r, "/")
	second := serve(r, "/")
	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if second.Header().Get(HeaderCache) != "HIT" || second.Body.String() != first.Body.String() {
		t.Errorf("expected verbatim replay, got %q (%s)", second.Body.String(), second.Header().Get(HeaderCache))
	}
	if second.Header().Get("Content-Type") != first.Header().Get("Content-Type") {
		t.Errorf("content type not replayed")
	}

	serve(r, "/?page=2")
	if calls != 2 {
		t.Errorf("expected a distinct entry per query string")
	}
}

func TestCachePageSkipsErrors(t *testing.T) {
	status, calls := http.StatusInternalServerError, 0
	r := newCachedEngine(t, &status, &calls)

	serve(r, "/")
	serve(r, "/")
	if calls != 2 {
		t.Errorf("error responses must not be cached, handler ran %d times", calls)
	}
}
