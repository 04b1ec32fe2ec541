package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/security"
)

// Gin context keys set by the middleware in this package.
const (
	contextKeyRequestID = "request_id"
	contextKeyLogger    = "logger"
	contextKeySessions  = "session_manager"
)

// requestID returns the id assigned by RequestIDMiddleware.
func requestID(c *gin.Context) string {
	return c.GetString(contextKeyRequestID)
}

// requestLogger returns the request-scoped logger, falling back to the
// standard logrus logger outside the middleware chain.
func requestLogger(c *gin.Context) logrus.FieldLogger {
	if l, ok := c.Get(contextKeyLogger); ok {
		if logger, ok := l.(logrus.FieldLogger); ok {
			return logger
		}
	}
	return logrus.StandardLogger()
}

// --- Page rendering ---

// render writes an HTML page, adding the values every layout needs.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CSRFField"] = security.CSRFTokenField(c)
	data["RequestID"] = requestID(c)
	data["ReadOnly"] = c.GetBool(security.ContextKeyReadOnly)
	if sm, ok := c.Get(contextKeySessions); ok {
		if sessions, ok := sm.(*security.SessionManager); ok {
			data["Flash"] = sessions.PopFlash(c.Request)
		}
	}
	c.HTML(status, name, data)
}

// renderError renders the error page with the given status.
func renderError(c *gin.Context, status int, message string) {
	render(c, status, "error", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
}

// --- Error Response Helpers ---

// renderBadRequest sends a 400 Bad Request page.
func renderBadRequest(c *gin.Context, message string) {
	renderError(c, http.StatusBadRequest, message)
}

// renderNotFound sends a 404 Not Found page.
func renderNotFound(c *gin.Context, resource string) {
	renderError(c, http.StatusNotFound, resource+" not found")
}

// renderInternalError logs the error and sends a 500 page.
// The actual error is logged but not exposed to the client.
func renderInternalError(c *gin.Context, err error, context string) {
	requestLogger(c).WithError(err).WithField("context", context).Error("Internal error")
	renderError(c, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}

// renderStoreError maps catalog errors onto error pages.
func renderStoreError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		renderNotFound(c, "Book")
	case errors.Is(err, catalog.ErrInvalidArgument):
		renderBadRequest(c, err.Error())
	default:
		renderInternalError(c, err, context)
	}
}

// --- Parameter Parsing ---

// parseID parses a record id. Anything that is not a positive integer
// names no record.
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// redirectFound answers a form POST with a 302 to location.
func redirectFound(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}
