package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RateLimiterConfig configures a RateLimiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstSize         int

	// EntryTTL is how long an idle key keeps its limiter.
	EntryTTL time.Duration

	// KeyFunc picks the bucket for a request. Defaults to SessionOrIPKey.
	KeyFunc func(r *http.Request) string
}

// DefaultRateLimiterConfig suits the authenticated API.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 10,
		BurstSize:         20,
		EntryTTL:          10 * time.Minute,
		KeyFunc:           SessionOrIPKey,
	}
}

// StrictRateLimiterConfig suits login and registration.
func StrictRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 1,
		BurstSize:         5,
		EntryTTL:          10 * time.Minute,
		KeyFunc:           GetClientIP,
	}
}

// SessionOrIPKey buckets signed-in requests per business and anonymous ones
// per client IP.
func SessionOrIPKey(r *http.Request) string {
	if id := domain.BusinessIDFromContext(r.Context()); id != uuid.Nil {
		return "business:" + id.String()
	}
	return "ip:" + GetClientIP(r)
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per key in memory.
type RateLimiter struct {
	config   RateLimiterConfig
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	stop     chan struct{}
	now      func() time.Time
}

// NewRateLimiter starts a limiter and its cleanup goroutine. Call Stop on
// shutdown.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = SessionOrIPKey
	}
	if config.EntryTTL <= 0 {
		config.EntryTTL = 10 * time.Minute
	}

	rl := &RateLimiter{
		config:   config,
		limiters: make(map[string]*limiterEntry),
		stop:     make(chan struct{}),
		now:      time.Now,
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize),
		}
		rl.limiters[key] = entry
	}
	entry.lastSeen = rl.now()
	return entry.limiter
}

// Allow reports whether a request for key may proceed.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.get(key).Allow()
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.EntryTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.config.EntryTTL)
	for key, entry := range rl.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
}

// Stop ends the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stop)
}

// Middleware answers 429 with Retry-After once a key's bucket is empty.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := rl.get(rl.config.KeyFunc(r))

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.config.BurstSize))
		if !limiter.Allow() {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("Retry-After", "1")
			respondTooManyRequests(w, r)
			return
		}
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))

		next.ServeHTTP(w, r)
	})
}
