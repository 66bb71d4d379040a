package http

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/piercey/auth-service/internal/config"
	apperrors "github.com/piercey/auth-service/pkg/util/errorutil"
)

// CodeRateLimited is the error code of a throttled request.
const CodeRateLimited = "RATE_LIMITED"

const limiterCleanupInterval = 5 * time.Minute

// KeyFunc extracts the rate limit key of a request.
type KeyFunc func(*fiber.Ctx) string

// ClientIP keys requests by client address. fiber resolves X-Forwarded-For
// when the app is configured with a proxy header.
func ClientIP(c *fiber.Ctx) string {
	return c.IP()
}

type rateLimiter struct {
	limiters    sync.Map // map[string]*rate.Limiter
	rate        rate.Limit
	burst       int
	mu          sync.Mutex
	lastCleanup time.Time
}

func (rl *rateLimiter) limiter(key string) *rate.Limiter {
	if l, ok := rl.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}
	actual, _ := rl.limiters.LoadOrStore(key, rate.NewLimiter(rl.rate, rl.burst))
	rl.maybeCleanup()
	return actual.(*rate.Limiter)
}

// maybeCleanup drops limiters whose bucket is full, i.e. idle clients.
func (rl *rateLimiter) maybeCleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if time.Since(rl.lastCleanup) < limiterCleanupInterval {
		return
	}
	rl.lastCleanup = time.Now()

	rl.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(rl.burst) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// RateLimit throttles requests per key with a token bucket refilled at
// Requests per Window.
func RateLimit(cfg config.RateLimitConfig, key KeyFunc, logger *zap.Logger) fiber.Handler {
	requests := cfg.Requests
	if requests <= 0 {
		requests = 1
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = requests
	}
	window := cfg.Window()

	rl := &rateLimiter{
		rate:        rate.Limit(float64(requests) / window.Seconds()),
		burst:       burst,
		lastCleanup: time.Now(),
	}

	return func(c *fiber.Ctx) error {
		k := key(c)
		if k == "" {
			logger.Warn("rate limit: unable to extract key, allowing request")
			return c.Next()
		}

		l := rl.limiter(k)
		if l.Allow() {
			return c.Next()
		}

		reservation := l.Reserve()
		delay := reservation.Delay()
		reservation.Cancel()

		retryAfter := max(int(delay.Seconds()), 1)
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		c.Set("X-RateLimit-Limit", strconv.Itoa(requests))
		c.Set("X-RateLimit-Window", window.String())

		logger.Warn("rate limit exceeded",
			zap.String("key", k),
			zap.String("path", c.Path()),
			zap.Int("retry_after", retryAfter))
		return apperrors.NewDomainError(CodeRateLimited, "too many requests", fiber.StatusTooManyRequests, nil)
	}
}
