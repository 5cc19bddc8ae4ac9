package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/formco/backend/internal/app/models/dto"
	"github.com/formco/backend/internal/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// RateLimiter is a per-client token bucket
type RateLimiter struct {
	visitors map[string]*Visitor
	mu       sync.Mutex
	rate     float64       // tokens added per interval
	burst    float64       // bucket capacity
	interval time.Duration // refill interval
	now      func() time.Time
}

// Visitor is the bucket of one client
type Visitor struct {
	tokens      float64
	lastUpdated time.Time
}

// NewRateLimiter allows rate requests per minute per client with the given burst capacity
func NewRateLimiter(rate float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		visitors: make(map[string]*Visitor),
		rate:     rate,
		burst:    float64(burst),
		interval: time.Minute,
		now:      time.Now,
	}
}

// Allow takes one token from the bucket of key, refilling it for the time elapsed since the last call
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	visitor, exists := rl.visitors[key]
	if !exists {
		visitor = &Visitor{tokens: rl.burst, lastUpdated: now}
		rl.visitors[key] = visitor
	}

	if elapsed := now.Sub(visitor.lastUpdated); elapsed > 0 {
		visitor.tokens += elapsed.Seconds() * rl.rate / rl.interval.Seconds()
		if visitor.tokens > rl.burst {
			visitor.tokens = rl.burst
		}
		visitor.lastUpdated = now
	}

	if visitor.tokens >= 1 {
		visitor.tokens--
		return true
	}
	return false
}

// Cleanup forgets clients whose bucket has been full for longer than idle
func (rl *RateLimiter) Cleanup(idle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, visitor := range rl.visitors {
		if now.Sub(visitor.lastUpdated) > idle {
			delete(rl.visitors, key)
		}
	}
}

// RateLimiterMiddleware rejects clients that exhausted their bucket with 429
func RateLimiterMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			metrics.RateLimiterRejections.WithLabelValues(routeLabel(c)).Inc()

			errorDetail := dto.NewErrorDetail(dto.ErrorCodeRateLimited, "Too many requests")
			errorDetail = errorDetail.WithDetails("Please try again later")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(errorDetail))
			return
		}
		c.Next()
	}
}
