package http

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterIdleTTL         = time.Hour
)

// clientLimiters holds one token bucket per client IP.
type clientLimiters struct {
	limiters sync.Map // client IP -> *clientLimiter
	rps      float64
	burst    int
	now      func() time.Time
}

type clientLimiter struct {
	limiter    *rate.Limiter
	mu         sync.Mutex
	lastAccess time.Time
}

func newClientLimiters(rps float64, burst int) *clientLimiters {
	if burst < 1 {
		burst = 1
	}
	return &clientLimiters{rps: rps, burst: burst, now: time.Now}
}

// IngestRateLimitMiddleware limits each client IP to rps requests per second with the
// given burst. Rejected requests get 429 with a Retry-After header in seconds. Idle
// limiters are dropped periodically until ctx is cancelled.
func IngestRateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := newClientLimiters(rps, burst)
	go store.cleanupLoop(ctx, limiterCleanupInterval)

	return store.middleware(logger)
}

func (s *clientLimiters) middleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		limiter := s.get(clientIP)

		if limiter.Allow() {
			c.Next()
			return
		}

		reservation := limiter.Reserve()
		retryAfter := int(math.Ceil(reservation.Delay().Seconds()))
		reservation.Cancel()
		if retryAfter < 1 {
			retryAfter = 1
		}

		logger.Debug("ingest rate limit exceeded",
			slog.String("client_ip", clientIP),
			slog.String("path", c.FullPath()),
			slog.Int("retry_after", retryAfter),
		)

		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":   "rate_limit_exceeded",
			"message": "too many requests from this client, retry later",
		})
	}
}

func (s *clientLimiters) get(ip string) *rate.Limiter {
	now := s.now()
	if v, ok := s.limiters.Load(ip); ok {
		entry := v.(*clientLimiter)
		entry.mu.Lock()
		entry.lastAccess = now
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &clientLimiter{
		limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastAccess: now,
	}
	actual, _ := s.limiters.LoadOrStore(ip, entry)
	return actual.(*clientLimiter).limiter
}

// sweep removes limiters idle since before threshold and returns how many were dropped.
func (s *clientLimiters) sweep(threshold time.Time) int {
	removed := 0
	s.limiters.Range(func(key, value any) bool {
		entry := value.(*clientLimiter)
		entry.mu.Lock()
		stale := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()

		if stale {
			s.limiters.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

func (s *clientLimiters) cleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(s.now().Add(-limiterIdleTTL))
		}
	}
}
