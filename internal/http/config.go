package http

import (
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/library/internal/security"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Books    BookStore
	Activity ActivityLog   // optional, nil disables the activity log
	Health   HealthChecker // optional
	Logger   logrus.FieldLogger

	// UI paths, empty means the embedded assets
	TemplatesPath string
	StaticPath    string

	// CSRF protection, disabled when the secret is empty
	CSRFSecret    []byte
	SecureCookies bool

	// Sessions carry flash messages (optional)
	SessionManager *security.SessionManager

	// Reject every write request
	ReadOnly bool

	// Application info
	Version string
}
