package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "finpilot/internal/errors"
)

// JobsAuthMiddleware guards scheduler-triggered endpoints with the X-API-Key
// header. An empty configured key disables those endpoints.
func JobsAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			AbortWithError(c, apperrors.ErrJobsNotConfigured)
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			RequestLogger(c).Warnw("rejected job call", "client_ip", c.ClientIP())
			AbortWithError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
