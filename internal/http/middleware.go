package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/library/internal/security"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

// RequestIDMiddleware assigns every request an id, reusing a sane incoming
// X-Request-Id header.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(contextKeyRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLogMiddleware logs one line per request and exposes a request-scoped
// logger to handlers.
func AccessLogMiddleware(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		entry := logger.WithField("request_id", requestID(c))
		c.Set(contextKeyLogger, entry)

		c.Next()

		status := c.Writer.Status()
		fields := entry.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			fields = fields.WithField("errors", c.Errors.String())
		}

		switch {
		case status >= http.StatusInternalServerError:
			fields.Error("request")
		case status >= http.StatusBadRequest:
			fields.Warn("request")
		default:
			fields.Info("request")
		}
	}
}

// RecoveryMiddleware turns panics into the 500 error page.
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		requestLogger(c).WithField("panic", recovered).Error("Recovered from panic")
		renderError(c, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		c.Abort()
	})
}

// SessionContextMiddleware makes the session manager available to the
// renderer for flash messages.
func SessionContextMiddleware(sm *security.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKeySessions, sm)
		c.Next()
	}
}

// setFlash stores a flash message when sessions are enabled.
func setFlash(c *gin.Context, kind, message string) {
	if sm, ok := c.Get(contextKeySessions); ok {
		if sessions, ok := sm.(*security.SessionManager); ok {
			sessions.SetFlash(c.Request, kind, message)
		}
	}
}
