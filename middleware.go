package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	constants "github.com/CodeAndHammer/venkovorto/internal/constants"
	util "github.com/CodeAndHammer/venkovorto/internal/util"
)

func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
		}
		c.Next()
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.Request.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		ctx := context.WithValue(c.Request.Context(), constants.RequestIDKey, reqID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-Id", reqID)
		c.Next()
	}
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// limiterRegistry keeps one token bucket per client IP with stale-entry
// cleanup.
type limiterRegistry struct {
	mu      sync.RWMutex
	entries map[string]*limiterEntry
	rps     int
	burst   int
	ttl     time.Duration
}

func newLimiterRegistry(rps, burst int, ttl time.Duration) *limiterRegistry {
	return &limiterRegistry{
		entries: make(map[string]*limiterEntry),
		rps:     rps,
		burst:   burst,
		ttl:     ttl,
	}
}

func (r *limiterRegistry) get(key string) *rate.Limiter {
	r.mu.RLock()
	entry, ok := r.entries[key]
	r.mu.RUnlock()
	if ok {
		r.mu.Lock()
		if entry, ok = r.entries[key]; ok {
			entry.lastAccess = time.Now()
		}
		r.mu.Unlock()
		if ok {
			return entry.limiter
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok = r.entries[key]; ok {
		entry.lastAccess = time.Now()
		return entry.limiter
	}

	if key == "" || key == "::1" {
		util.LogWarn("Rate limiter key is empty or loopback: %q", key)
	}
	rps := r.rps
	if rps <= 0 {
		rps = 1
	}
	lim := rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), r.burst)
	r.entries[key] = &limiterEntry{limiter: lim, lastAccess: time.Now()}
	return lim
}

func (r *limiterRegistry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *limiterRegistry) cleanupStale() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-r.ttl)
	removed := 0
	for key, entry := range r.entries {
		if entry.lastAccess.Before(cutoff) {
			delete(r.entries, key)
			removed++
		}
	}
	if removed > 0 {
		util.LogInfo("Cleaned up %d stale rate limiters", removed)
	}
}

func (r *limiterRegistry) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please slow down."})
			return
		}
		c.Next()
	}
}
