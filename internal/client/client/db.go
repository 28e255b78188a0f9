package client

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/unirent/unirent/internal/client/migrations"
	"github.com/unirent/unirent/internal/filex"

	_ "modernc.org/sqlite"
)

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return errors.Wrap(err, "set goose dialect")
	}

	return errors.Wrap(goose.UpContext(ctx, db, "."), "apply migrations")
}

// InitDatabase opens the client-local SQLite database at dsn and migrates it.
// Missing parent directories are created.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if _, err := filex.EnsureParentDir(dsn); err != nil {
		return nil, errors.Wrap(err, "prepare database directory")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", dsn)
	}

	// one writer keeps read-modify-write cycles serialized inside this process
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
