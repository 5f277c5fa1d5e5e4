package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finance-dashboard/migrations"
	"github.com/pressly/goose/v3"
)

func newProvider(db *sql.DB, migrationsDir string) (*goose.Provider, error) {
	if db == nil {
		return nil, errors.New("migrations: db is nil")
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Source(migrationsDir))
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return provider, nil
}

// RunMigrations applies pending migrations. An empty migrationsDir selects the
// migrations embedded in the binary.
func RunMigrations(ctx context.Context, db *sql.DB, migrationsDir string) error {
	provider, err := newProvider(db, migrationsDir)
	if err != nil {
		return err
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// SchemaVersion returns the highest applied migration version.
func SchemaVersion(ctx context.Context, db *sql.DB, migrationsDir string) (int64, error) {
	provider, err := newProvider(db, migrationsDir)
	if err != nil {
		return 0, err
	}
	return provider.GetDBVersion(ctx)
}
