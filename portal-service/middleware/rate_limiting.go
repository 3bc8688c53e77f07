package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"carelink-backend/shared/cache"
	"carelink-backend/shared/config"
)

// RateLimiter is a per-IP fixed-window request limiter for the portal
// surfaces. Counters live in Redis so the limit holds across instances.
type RateLimiter struct {
	RDB *redis.Client
}

// RateLimitConfig - Rate limiter configuration
type RateLimitConfig struct {
	MaxRequests int
	TimeWindow  time.Duration
}

// NewRateLimitConfig - Creates a new RateLimitConfig from environment variables
func NewRateLimitConfig() RateLimitConfig {
	cfg := config.GetConfig()

	return RateLimitConfig{
		MaxRequests: cfg.GetRateLimitMaxRequests(),
		TimeWindow:  time.Duration(cfg.GetRateLimitTimeWindowSeconds()) * time.Second,
	}
}

// isExempt skips limiting for liveness and documentation endpoints
func isExempt(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/swagger")
}

// requestKey scopes the counter per admin surface so a burst against one
// surface does not exhaust the IP's budget on the others.
func requestKey(path, clientIP string) string {
	surface := "portal"
	switch {
	case strings.HasPrefix(path, "/api/ops/admin"):
		surface = "ops-admin"
	case strings.HasPrefix(path, "/api/app-admin"):
		surface = "app-admin"
	case strings.HasPrefix(path, "/api/admin"):
		surface = "admin"
	}
	return cache.RateLimitKey("http:"+surface, clientIP)
}

// isAllowed counts this request against the key's window. The first request
// opens the window; requests past MaxRequests are denied until it expires.
// Fails open when Redis is unreachable so an outage does not take the portal
// down with it.
func (rl *RateLimiter) isAllowed(ctx context.Context, key string, config RateLimitConfig) (bool, time.Duration) {
	count, err := rl.RDB.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("⚠️ Rate limit check failed, allowing request: %v", err)
		return true, 0
	}

	if count == 1 {
		if err := rl.RDB.PExpire(ctx, key, config.TimeWindow).Err(); err != nil {
			log.Printf("⚠️ Rate limit window expire failed: %v", err)
		}
	}

	if count > int64(config.MaxRequests) {
		retryIn, err := rl.RDB.PTTL(ctx, key).Result()
		if err != nil || retryIn < 0 {
			retryIn = config.TimeWindow
		}
		return false, retryIn
	}

	return true, 0
}

// GlobalRateLimitMiddleware - Per-IP rate limiting for all portal requests
func (rl *RateLimiter) GlobalRateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isExempt(c.Request.URL.Path) {
			c.Next()
			return
		}

		key := requestKey(c.Request.URL.Path, c.ClientIP())
		allowed, retryIn := rl.isAllowed(c.Request.Context(), key, config)
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"message":     "Too many requests from this IP. Please try again later.",
				"retry_after": retryIn.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
