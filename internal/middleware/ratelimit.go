package middleware

import (
	"net/http"
	"sync"
	"time"

	"taskify/backend/internal/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiterRegistry struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rate    rate.Limit
	burst   int
}

func (r *rateLimiterRegistry) get(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.clients[key]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(r.rate, r.burst)}
		r.clients[key] = client
	}
	client.lastSeen = time.Now()
	return client.limiter
}

func (r *rateLimiterRegistry) cleanup(maxIdle time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, client := range r.clients {
		if time.Since(client.lastSeen) > maxIdle {
			delete(r.clients, key)
		}
	}
}

// RateLimitMiddleware limits requests per client IP. Disabled entirely when
// the config says so.
func RateLimitMiddleware(cfg config.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	registry := &rateLimiterRegistry{
		clients: make(map[string]*clientLimiter),
		rate:    rate.Limit(float64(cfg.RequestsPerMin) / 60.0),
		burst:   cfg.BurstSize,
	}

	go func() {
		ticker := time.NewTicker(cfg.CleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			registry.cleanup(cfg.CleanupInterval)
		}
	}()

	return func(c *gin.Context) {
		if !registry.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limited",
				"message": "Too many requests, slow down",
			})
			return
		}
		c.Next()
	}
}
