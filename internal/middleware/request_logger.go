package middleware

import (
	"time"

	"github.com/echoes-intel/playint/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDKey gin context key holding the request ID
const RequestIDKey = "request_id"

// RequestLogger assigns an X-Request-ID and writes one structured line per request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		began := time.Now()

		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()[:8]
		}
		c.Set(RequestIDKey, id)
		c.Header("X-Request-ID", id)

		c.Next()

		status := c.Writer.Status()
		reqLog := logger.WithRequestID(id)
		event := reqLog.WithLevel(levelForStatus(status))
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Dur("latency", time.Since(began)).
			Str("client_ip", c.ClientIP()).
			Int("body_size", c.Writer.Size()).
			Msg("request")
	}
}

func levelForStatus(status int) zerolog.Level {
	switch {
	case status >= 500:
		return zerolog.ErrorLevel
	case status >= 400:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// GetRequestID returns the request ID set by RequestLogger
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
