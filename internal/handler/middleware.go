package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/msomdec/o2o-admin/internal/service"
	"github.com/rs/zerolog"
)

// RequestLogger logs one line per request once the handler chain finishes.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			event = logger.Error()
		case status >= http.StatusBadRequest:
			event = logger.Warn()
		default:
			event = logger.Info()
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

// HandlePanics converts a recovered panic into a 500 response.
func HandlePanics(logger zerolog.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("recovered from panic")
		writeError(c, http.StatusInternalServerError, "internal server error")
	}
}

// RateLimit rejects requests from a client IP whose bucket is empty.
func RateLimit(limiter *service.TokenBucket) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			writeError(c, http.StatusTooManyRequests, "too many requests")
			return
		}
		c.Next()
	}
}

// LimitBody caps the request body at maxBytes.
func LimitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
