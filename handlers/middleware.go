package handlers

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/vit0-9/domain_report/models"
	"github.com/vit0-9/domain_report/pkg/metrics"
)

// LimiterStore hands out one token bucket per client key and forgets keys
// that stayed idle longer than idleTTL.
type LimiterStore struct {
	mu          sync.Mutex
	entries     map[string]*limiterEntry
	rps         rate.Limit
	burst       int
	idleTTL     time.Duration
	lastCleanup time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewLimiterStore(rps float64, burst int) *LimiterStore {
	return &LimiterStore{
		entries:     make(map[string]*limiterEntry),
		rps:         rate.Limit(rps),
		burst:       burst,
		idleTTL:     15 * time.Minute,
		lastCleanup: time.Now(),
	}
}

func (s *LimiterStore) Get(key string) *rate.Limiter {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastCleanup) > s.idleTTL {
		for k, ent := range s.entries {
			if now.Sub(ent.lastSeen) > s.idleTTL {
				delete(s.entries, k)
			}
		}
		s.lastCleanup = now
	}

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}
	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

// RateLimit rejects requests over the per-client budget with 429 and a
// Retry-After header. A nil store disables limiting.
func RateLimit(store *LimiterStore, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.Next()
			return
		}
		lim := store.Get(c.ClientIP())
		res := lim.Reserve()
		if !res.OK() || res.Delay() > 0 {
			retryAfter := time.Second
			if res.OK() {
				retryAfter = res.Delay()
				res.Cancel()
			}
			if m != nil {
				m.RateLimitRejectsTotal.Inc()
			}
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.APIErrorResponse{
				StatusCode: http.StatusTooManyRequests,
				ErrorCode:  models.ErrCodeRateLimited,
				Message:    "Too many requests, slow down.",
			})
			return
		}
		c.Next()
	}
}

// RequestMetrics counts requests per route template and status code.
func RequestMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		logrus.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"route":   route,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start),
			"client":  c.ClientIP(),
		}).Debug("request")
	}
}
