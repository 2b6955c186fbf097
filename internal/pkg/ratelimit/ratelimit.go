// Package ratelimit keeps one token bucket per key (user id or IP).
package ratelimit

import (
	"sync"
	"time"

	"mitr-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	limiters map[string]*entry
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*entry),
		rate:     rate.Limit(perSecond),
		burst:    burst,
		now:      time.Now,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	e, exists := rl.limiters[key]
	if !exists {
		e = &entry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = e
	}
	e.lastSeen = rl.now()
	return e.limiter
}

// Allow reports whether key may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Handler answers 429 when the caller is over its budget. The key is the
// authenticated user when present, else the client IP.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		key, _ := ctx.Locals(serverutils.LocalUserID).(string)
		if key == "" {
			key = ctx.IP()
		}
		if !rl.Allow(key) {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(
				serverutils.ErrorResponse(fiber.StatusTooManyRequests, "Too many requests, slow down a little"))
		}
		return ctx.Next()
	}
}

// Cleanup drops limiters idle for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-maxIdle)
	for key, e := range rl.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
}
