package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	DriverName = "sqlite"
	// DefaultMigrationsDir selects the embedded migrations.
	DefaultMigrationsDir = ""
)

// connectionPragmas are applied by the driver to every new connection.
var connectionPragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
}

// DSN builds a modernc.org/sqlite data source name for dbPath carrying the
// connection pragmas.
func DSN(dbPath string) string {
	query := url.Values{}
	for _, pragma := range connectionPragmas {
		query.Add("_pragma", pragma)
	}
	return "file:" + dbPath + "?" + query.Encode()
}

// Open creates the parent directory of dbPath if needed and returns a pinged
// handle limited to one connection, so every write goes through the same
// sqlite session.
func Open(ctx context.Context, dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		return nil, errors.New("sqlite open: db path is required")
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("sqlite open: create directory %q: %w", dir, err)
		}
	}

	db, err := sql.Open(DriverName, DSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping %q: %w", dbPath, err)
	}
	return db, nil
}

// OpenAndMigrate opens the database and applies migrations from migrationsDir,
// or the embedded set when migrationsDir is empty.
func OpenAndMigrate(ctx context.Context, dbPath, migrationsDir string) (*sql.DB, error) {
	db, err := Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db, migrationsDir); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %q: %w", dbPath, err)
	}
	return db, nil
}
