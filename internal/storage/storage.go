package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

type Storage struct {
	DB *sql.DB
}

// Open connects to the history database. Remote libsql/Turso URLs go through
// the libsql driver, anything else is treated as a local sqlite file.
func Open(dsn string) (*Storage, error) {
	driver := driverFor(dsn)
	if driver == "sqlite" {
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("Failed to open db %s: %w", dsn, err)
	}

	if err := initializeDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("Failed to initialize database: %w", err)
	}

	return &Storage{DB: db}, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func driverFor(dsn string) string {
	for _, prefix := range []string{"libsql://", "http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "libsql"
		}
	}
	return "sqlite"
}

func ensureDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0755)
}

func initializeDB(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS conversions (
            id TEXT PRIMARY KEY,
            source_path TEXT NOT NULL,
            output_path TEXT,
            title TEXT NOT NULL,
            ftp REAL,
            segments INTEGER NOT NULL,
            samples INTEGER NOT NULL,
            duration_seconds INTEGER NOT NULL,
            warnings TEXT,
            status TEXT NOT NULL,
            error TEXT,
            created_at TEXT NOT NULL
        );

        CREATE INDEX IF NOT EXISTS conversions_created_at ON conversions(created_at);
    `)
	return err
}
