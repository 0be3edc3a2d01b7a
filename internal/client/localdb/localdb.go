// Package localdb wires the client's local SQLite database: it opens the
// file, applies embedded goose migrations, and bundles the repositories
// the rest of the client uses.
package localdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/homequote/homequote/internal/client/migrations"
	"github.com/homequote/homequote/internal/client/repositories/credentials"
	"github.com/homequote/homequote/internal/client/repositories/inspections"
	"github.com/homequote/homequote/internal/client/repositories/quotes"
)

type Repositories struct {
	Credentials credentials.Repository
	Quotes      quotes.Repository
	Inspections inspections.Repository
}

// RunMigrations applies the embedded migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (or creates) the local store at dsn, migrates it, and
// returns the database handle plus the repository bundle.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, *Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open local database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to migrate local database: %w", err)
	}

	repos := &Repositories{
		Credentials: credentials.NewSQLiteRepository(db),
		Quotes:      quotes.NewSQLiteRepository(db),
		Inspections: inspections.NewSQLiteRepository(db),
	}
	return db, repos, nil
}
