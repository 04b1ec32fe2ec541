package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/library/internal/activity"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	activityRepo "github.com/mrlokans/library/internal/database/activity"
	"github.com/mrlokans/library/internal/database/books"
	http_controllers "github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/logging"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/security"
	"github.com/mrlokans/library/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, log logrus.FieldLogger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-quit:
		log.WithFields(logrus.Fields{"signal": sig.String(), "timeout": timeout}).Info("Shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener goes away
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("Server exiting")
	return nil
}

// Run wires the application together and serves it.
func Run(cfg *config.Config, version string) error {
	log := logging.New(cfg.Log)
	log.WithField("version", version).Info("Starting Library")

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if log.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewDatabase(cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.WithError(err).Error("Error closing database")
		}
	}()

	bookRepo := books.NewRepository(db.DB)

	var activityService *activity.Service
	if cfg.Activity.Enabled {
		activityService = activity.NewService(activityRepo.NewRepository(db.DB), log)
	} else {
		log.Info("Activity log disabled")
	}

	// Sessions carry flash messages; the secret also keys CSRF tokens
	secret, generated, err := security.SessionSecret(cfg.Session)
	if err != nil {
		return err
	}
	if generated {
		log.Warn("Generated session secret (set SESSION_SECRET to persist)")
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get SQL DB for sessions: %w", err)
	}
	sessionManager, err := security.NewSessionManager(sqlDB, db.Driver, cfg.Session)
	if err != nil {
		return fmt.Errorf("failed to initialize session manager: %w", err)
	}

	var csrfSecret []byte
	if cfg.Session.CSRFEnabled {
		csrfSecret = secret
	} else {
		log.Warn("CSRF protection disabled")
	}

	if cfg.ReadOnly.Enabled {
		log.Info("Read-only mode enabled - write operations will be blocked")
	}

	// Background maintenance: task queue plus the cron job feeding it
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled && activityService != nil {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.ConfigFrom(cfg.Tasks), log)
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.WithError(err).Error("Error closing task client")
			}
		}()

		taskClient.Register(tasks.NewCleanupActivityEventsQueue(activityService, log))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	var cleanupScheduler *scheduler.ActivityCleanupScheduler
	if activityService != nil {
		var queue scheduler.Enqueuer
		if taskClient != nil {
			queue = taskClient
		}
		cleanupScheduler = scheduler.NewActivityCleanupScheduler(cfg.Activity, queue, activityService, log)
		if err := cleanupScheduler.Start(context.Background()); err != nil {
			return fmt.Errorf("failed to start activity cleanup scheduler: %w", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Books:          bookRepo,
		Health:         db,
		Logger:         log,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Session.SecureCookies,
		SessionManager: sessionManager,
		ReadOnly:       cfg.ReadOnly.Enabled,
		Version:        version,
	}
	if activityService != nil {
		routerCfg.Activity = activityService
	}

	router, err := http_controllers.NewRouter(routerCfg)
	if err != nil {
		return err
	}

	onShutdown := func(ctx context.Context) {
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	return Serve(router, cfg, log, onShutdown)
}
