package security

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/mrlokans/library/internal/config"
)

// Session data keys
const (
	SessionKeyFlash     = "flash"
	SessionKeyFlashKind = "flash_kind"
)

// Flash kinds map onto CSS classes in the layout.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

// SessionManager wraps scs.SessionManager with application-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager. With a SQLite
// catalog the sessions live in the same database file; any other driver keeps
// them in memory.
func NewSessionManager(sqlDB *sql.DB, driver config.DatabaseDriver, cfg config.Session) (*SessionManager, error) {
	sm := scs.New()

	if driver == config.DriverSQLite && sqlDB != nil {
		// Create sessions table if it doesn't exist
		_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
		if err != nil {
			return nil, fmt.Errorf("failed to create sessions table: %w", err)
		}
		sm.Store = sqlite3store.New(sqlDB)
	} else {
		sm.Store = memstore.New()
	}

	sm.Lifetime = cfg.Lifetime
	sm.IdleTimeout = cfg.Lifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// SetFlash stores a message for the next rendered page.
func (sm *SessionManager) SetFlash(r *http.Request, kind, message string) {
	sm.Put(r.Context(), SessionKeyFlash, message)
	sm.Put(r.Context(), SessionKeyFlashKind, kind)
}

// PopFlash returns and clears the pending flash message, if any.
func (sm *SessionManager) PopFlash(r *http.Request) *Flash {
	message := sm.PopString(r.Context(), SessionKeyFlash)
	kind := sm.PopString(r.Context(), SessionKeyFlashKind)
	if message == "" {
		return nil
	}
	if kind == "" {
		kind = FlashSuccess
	}
	return &Flash{Kind: kind, Message: message}
}

// SessionSecret returns the configured secret, or a random one when none is
// set. A random secret invalidates outstanding forms on every restart.
func SessionSecret(cfg config.Session) ([]byte, bool, error) {
	if cfg.Secret != "" {
		return []byte(cfg.Secret), false, nil
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, false, fmt.Errorf("failed to generate session secret: %w", err)
	}
	return secret, true, nil
}
