package database

import (
	"database/sql"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
)

const (
	// SQLiteDriverName is the go-sqlite3 driver with the catalog's SQL functions registered.
	SQLiteDriverName = "sqlite3_library"

	// SQLiteFoldFunc lower-cases text using full Unicode case mapping.
	// The builtin LOWER only folds ASCII letters.
	SQLiteFoldFunc = "unicode_lower"
)

var registerSQLite sync.Once

func registerSQLiteDriver() {
	registerSQLite.Do(func() {
		sql.Register(SQLiteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc(SQLiteFoldFunc, foldText, true)
			},
		})
	})
}

// foldText lower-cases TEXT and BLOB values and passes everything else through.
// go-sqlite3 hands NULL over as a nil byte slice, which stays NULL.
func foldText(v any) any {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		if s == nil {
			return nil
		}
		return strings.ToLower(string(s))
	default:
		return v
	}
}
