package handlers

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Login attempts allowed per client IP: a burst of 5, then one every 12s.
const (
	loginBurst    = 5
	loginInterval = 12 * time.Second
	limiterIdle   = 10 * time.Minute
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP. Idle entries are swept on
// access.
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*ipLimiter
	rate      rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(r rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*ipLimiter),
		rate:     r,
		burst:    burst,
		now:      time.Now,
	}
}

// NewLoginLimiter is the limiter for the admin login form.
func NewLoginLimiter() *RateLimiter {
	return NewRateLimiter(rate.Every(loginInterval), loginBurst)
}

// Allow reports whether ip may make another request now.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > limiterIdle {
		for key, l := range rl.limiters {
			if now.Sub(l.lastSeen) > limiterIdle {
				delete(rl.limiters, key)
			}
		}
		rl.lastSweep = now
	}

	l, ok := rl.limiters[ip]
	if !ok {
		l = &ipLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[ip] = l
	}
	l.lastSeen = now
	return l.limiter.AllowN(now, 1)
}

// retryAfter is the Retry-After value in whole seconds.
func (rl *RateLimiter) retryAfter() int {
	if rl.rate <= 0 {
		return 60
	}
	return max(int(math.Round(1/float64(rl.rate))), 1)
}

// LoginRateLimit re-renders the login form with 429 once a client exceeds
// the limit. The credentials are never sent to the API.
func LoginRateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		log.Warn().Str("client_ip", c.ClientIP()).Msg("login rate limit exceeded")
		c.Header("Retry-After", strconv.Itoa(rl.retryAfter()))
		renderLoginPage(c, http.StatusTooManyRequests, c.PostForm("username"),
			"Too many login attempts. Please wait a moment and try again.")
		c.Abort()
	}
}
