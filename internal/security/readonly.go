package security

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ReadOnlyMessage is shown when a write is rejected.
const ReadOnlyMessage = "The catalog is in read-only mode"

// ContextKeyReadOnly exposes the read-only flag to templates.
const ContextKeyReadOnly = "read_only"

// ReadOnlyGuard blocks write operations when the catalog runs read-only.
// Safe methods always pass. Search form submissions are POSTs that only
// redirect, so list pages stay searchable.
type ReadOnlyGuard struct {
	enabled   bool
	onBlocked func(c *gin.Context, status int, message string)
}

// NewReadOnlyGuard creates the guard. onBlocked renders the rejection; when nil
// a plain-text 403 is written.
func NewReadOnlyGuard(enabled bool, onBlocked func(c *gin.Context, status int, message string)) *ReadOnlyGuard {
	return &ReadOnlyGuard{enabled: enabled, onBlocked: onBlocked}
}

// IsEnabled returns whether read-only mode is active.
func (g *ReadOnlyGuard) IsEnabled() bool {
	return g.enabled
}

// Handler returns a Gin middleware that blocks write operations.
func (g *ReadOnlyGuard) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyReadOnly, g.enabled)

		if !g.enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if isSearchSubmit(c.Request.URL.Path) {
			c.Next()
			return
		}

		g.respondBlocked(c)
	}
}

// isSearchSubmit reports whether path is a list page search form target,
// i.e. /books/page<N> or /books/page<N>/<term>.
func isSearchSubmit(path string) bool {
	rest, ok := strings.CutPrefix(path, "/books/page")
	if !ok {
		return false
	}
	number, _, _ := strings.Cut(rest, "/")
	if number == "" {
		return false
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (g *ReadOnlyGuard) respondBlocked(c *gin.Context) {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     ReadOnlyMessage,
			"read_only": true,
		})
		return
	}

	if g.onBlocked != nil {
		g.onBlocked(c, http.StatusForbidden, ReadOnlyMessage)
		c.Abort()
		return
	}

	c.String(http.StatusForbidden, ReadOnlyMessage)
	c.Abort()
}
