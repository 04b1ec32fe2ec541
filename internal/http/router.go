package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/library/internal/security"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	router := gin.New()
	router.RedirectTrailingSlash = false

	router.Use(RequestIDMiddleware())
	router.Use(AccessLogMiddleware(logger))
	router.Use(RecoveryMiddleware())

	// Apply security headers to all responses
	router.Use(security.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(security.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
		router.Use(SessionContextMiddleware(cfg.SessionManager))
	}

	readOnly := security.NewReadOnlyGuard(cfg.ReadOnly, renderError)
	if readOnly.IsEnabled() {
		logger.Info("Read-only mode enabled, catalog writes are rejected")
	}
	router.Use(readOnly.Handler())

	tmpl, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	static, err := staticFileSystem(cfg.StaticPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load static assets: %w", err)
	}
	router.StaticFS("/static", static)

	health := NewHealthController(cfg.Health, cfg.Version)
	health.readOnly = readOnly.IsEnabled()
	books := NewBooksController(cfg.Books, cfg.Activity)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Catalog
	router.GET("/", books.RedirectToFirstPage)
	router.GET("/books", books.RedirectToFirstPage)
	router.GET("/books/*path", books.Get)
	router.POST("/books/*path", books.Post)
	router.GET("/new", books.NewForm)
	router.POST("/", books.Create)

	if cfg.Activity != nil {
		activity := NewActivityController(cfg.Activity)
		router.GET("/activity", activity.ActivityPage)
	}

	router.NoRoute(func(c *gin.Context) {
		renderNotFound(c, "Page")
	})

	return router, nil
}
