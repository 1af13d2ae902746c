package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"finpilot/internal/logger"
	"finpilot/internal/uuid"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const (
	requestIDKey = "requestID"
	loggerKey    = "requestLogger"
)

// RequestLogging tags each request with an id and logs its outcome. A caller
// supplied X-Request-ID is kept when it is a UUID. Server errors log at error
// level and client errors at warn.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if !uuid.IsValid(requestID) {
			requestID = uuid.New()
		}
		log := logger.With("request_id", requestID)
		c.Set(requestIDKey, requestID)
		c.Set(loggerKey, log)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if userID := c.GetString("userID"); userID != "" {
			fields = append(fields, "user_id", userID)
		}

		switch {
		case status >= 500:
			log.Errorw("request", fields...)
		case status >= 400:
			log.Warnw("request", fields...)
		default:
			log.Infow("request", fields...)
		}
	}
}

// RequestLogger returns the logger tagged with the current request id, or the
// global logger outside of RequestLogging.
func RequestLogger(c *gin.Context) *zap.SugaredLogger {
	if v, ok := c.Get(loggerKey); ok {
		if log, ok := v.(*zap.SugaredLogger); ok {
			return log
		}
	}
	return logger.Get()
}
