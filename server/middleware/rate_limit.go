// Package middleware holds echo middleware shared by the API routes.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// Graph loads are cheap after the first build, but an unthrottled client
// polling positions can keep the layout budget busy. The limits are generous
// for a single-user viewer.
const (
	requestsPerSecond = 10
	burstSize         = 20

	// Idle clients are forgotten after this long so the limiter map
	// cannot grow without bound.
	clientTTL = 10 * time.Minute
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
}

// NewRateLimiter creates an empty per-IP rate limiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{clients: make(map[string]*client)}
}

// Allow reports whether a request from the given client may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[key]
	if !ok {
		rl.prune()
		c = &client{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize)}
		rl.clients[key] = c
	}
	c.lastSeen = time.Now()
	return c.limiter.Allow()
}

// prune drops limiters idle past clientTTL. Must be called with mu held.
func (rl *RateLimiter) prune() {
	cutoff := time.Now().Add(-clientTTL)
	for key, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, key)
		}
	}
}

// Middleware returns an echo middleware limiting requests per client IP.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(c.RealIP()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
