package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	PostsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "posts_created_total",
		Help: "Total posts created",
	})

	CommentsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "comments_created_total",
		Help: "Total comments created",
	})

	FollowChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "follow_changes_total",
		Help: "Follow graph changes by action",
	}, []string{"action"})

	PageCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "page_cache_lookups_total",
		Help: "Page cache lookups by result",
	}, []string{"result"})

	LoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Login attempts by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(PostsCreated)
	prometheus.MustRegister(CommentsCreated)
	prometheus.MustRegister(FollowChanges)
	prometheus.MustRegister(PageCacheLookups)
	prometheus.MustRegister(LoginAttempts)
}

// Instrument records request latency labelled by route pattern, not raw path.
func Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
