package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	activitysvc "github.com/mrlokans/library/internal/activity"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	activityRepo "github.com/mrlokans/library/internal/database/activity"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/logging"
	"github.com/mrlokans/library/internal/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	router   *gin.Engine
	db       *database.Database
	books    *books.Repository
	activity *activitysvc.Service
}

type testOption func(*RouterConfig)

func withSessions(t *testing.T) testOption {
	return func(cfg *RouterConfig) {
		sm, err := security.NewSessionManager(nil, config.DriverPostgres, config.Session{Lifetime: time.Hour})
		require.NoError(t, err)
		cfg.SessionManager = sm
	}
}

func withReadOnly() testOption {
	return func(cfg *RouterConfig) {
		cfg.ReadOnly = true
	}
}

// setupTestApp builds the full router against a fresh SQLite file.
func setupTestApp(t *testing.T, opts ...testOption) *testApp {
	t.Helper()

	log := logging.Discard()
	db, err := database.NewDatabase(config.Database{
		Driver:   config.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "library.db"),
		LogLevel: "silent",
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	bookRepo := books.NewRepository(db.DB)
	activity := activitysvc.NewService(activityRepo.NewRepository(db.DB), log)

	cfg := RouterConfig{
		Books:    bookRepo,
		Activity: activity,
		Health:   db,
		Logger:   log,
		Version:  "test",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	router, err := NewRouter(cfg)
	require.NoError(t, err)

	return &testApp{router: router, db: db, books: bookRepo, activity: activity}
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) seed(t *testing.T, items ...entities.Book) []entities.Book {
	t.Helper()
	created := make([]entities.Book, 0, len(items))
	for i := range items {
		book := items[i]
		require.NoError(t, a.books.CreateBook(context.Background(), &book))
		created = append(created, book)
	}
	return created
}

// seedNumbered inserts n books titled "Book 01", "Book 02", ...
func (a *testApp) seedNumbered(t *testing.T, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		a.seed(t, entities.Book{Title: fmt.Sprintf("Book %02d", i), Author: "Author"})
	}
}

func (a *testApp) countBooks(t *testing.T) int64 {
	t.Helper()
	n, err := a.books.CountBooks(context.Background())
	require.NoError(t, err)
	return n
}

func intPtr(v int) *int {
	return &v
}

func (a *testApp) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}
