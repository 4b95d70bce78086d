package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"user-crud-console/pkg/ratelimit"
)

// RateLimiter returns a Gin middleware taking one token per request from a
// bucket keyed by method, path and client IP. A nil limiter disables it.
func RateLimiter(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:http:%s:%s:%s", c.Request.Method, c.FullPath(), c.ClientIP())
		if !limiter.Allow(c.Request.Context(), key) {
			cfg := limiter.Config()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": fmt.Sprintf("Rate limit exceeded: %.2f requests/second (burst capacity: %d)", cfg.RequestsPerSecond, cfg.BurstCapacity),
			})
			return
		}

		c.Next()
	}
}
