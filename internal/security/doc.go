// Package security holds the request-hardening middleware of the web UI:
// CSRF protection, security headers, cookie sessions with flash messages and
// the read-only guard.
//
// Order matters when registering the middleware:
//
//	router.Use(security.SecurityHeadersMiddleware())
//	router.Use(security.CSRFMiddleware(secret, cfg.Session.SecureCookies))
//	router.Use(sessions.SessionLoadSave())
//	router.Use(security.NewReadOnlyGuard(cfg.ReadOnly.Enabled, onBlocked).Handler())
//
// CSRF runs before sessions so the session context is layered on top of the
// CSRF request context.
package security
