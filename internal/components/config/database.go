package config

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Database configures where the pipeline's state lives. `url` takes precedence over
// `file` and may point at a remote libsql/turso database (libsql://, wss://, https://).
type Database struct {
	File string `json:"file"`
	URL  string `json:"url"`
}

func isRemote(url string) bool {
	return strings.HasPrefix(url, "libsql://") ||
		strings.HasPrefix(url, "wss://") ||
		strings.HasPrefix(url, "https://")
}

// OpenDB opens the database and applies `schema` to it, the schema is expected to be
// idempotent (CREATE ... IF NOT EXISTS).
func (config Database) OpenDB(schema string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch {
	case config.URL != "" && isRemote(config.URL):
		db, err = sql.Open("libsql", config.URL)
		if err != nil {
			return nil, err
		}
	case config.URL != "" || config.File != "":
		path := config.File
		if config.URL != "" {
			path = config.URL
		}
		if path != ":memory:" && !strings.HasPrefix(path, "file:") {
			err = os.MkdirAll(filepath.Dir(path), 0777)
			if err != nil {
				return nil, err
			}
		}
		db, err = sql.Open("sqlite", path)
		if err != nil {
			return nil, err
		}
		// see this stackoverflow post for information on why the following
		// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
		db.SetMaxOpenConns(1)
		if path != ":memory:" {
			_, err = db.Exec("PRAGMA journal_mode=WAL")
			if err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("database: neither a file nor a url was specified")
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return db, nil
}
