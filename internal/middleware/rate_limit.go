// internal/middleware/rate_limit.go
package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/javajoker/price-tracker/internal/utils"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	visitors map[string]*visitor
	mtx      sync.Mutex
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    b,
	}

	// Clean up old visitors every minute
	go rl.cleanupVisitors()

	return rl
}

func (rl *RateLimiter) cleanupVisitors() {
	for {
		time.Sleep(time.Minute)
		rl.evictIdle(3 * time.Minute)
	}
}

func (rl *RateLimiter) evictIdle(maxIdle time.Duration) {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()
	for ip, v := range rl.visitors {
		if time.Since(v.lastSeen) > maxIdle {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// retryAfter is the time one token takes to refill.
func (rl *RateLimiter) retryAfter() time.Duration {
	if rl.rate <= 0 || rl.rate == rate.Inf {
		return 0
	}
	return time.Duration(float64(time.Second) / float64(rl.rate))
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.getVisitor(c.ClientIP())

		if !limiter.Allow() {
			utils.TooManyRequestsResponse(c, rl.retryAfter())
			return
		}

		c.Next()
	}
}

// PerSecond limits each client to n requests per second with the given burst.
// A non-positive n disables the limit.
func PerSecond(n, burst int) gin.HandlerFunc {
	if n <= 0 {
		return unlimited
	}
	return NewRateLimiter(rate.Limit(n), burst).Middleware()
}

// PerMinute limits each client to n requests per minute with the given burst.
func PerMinute(n, burst int) gin.HandlerFunc {
	if n <= 0 {
		return unlimited
	}
	return NewRateLimiter(rate.Every(time.Minute/time.Duration(n)), burst).Middleware()
}

func unlimited(c *gin.Context) {
	c.Next()
}
