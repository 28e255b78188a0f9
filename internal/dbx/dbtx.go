// Package dbx provides the small database/sql abstractions shared by the
// client-local repositories: DBTX, satisfied by both *sql.DB and *sql.Tx, and
// WithTx, which scopes a read-modify-write cycle to one transaction.
package dbx

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// DBTX is the subset of database/sql used by repositories.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx begins a transaction, runs fn with the transactional handle, then
// commits on success or rolls back on error or panic. Panics are rethrown.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    repo := kv.NewSQLiteRepository(tx)
//	    ...
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = errors.Wrap(tx.Commit(), "commit tx")
	}()

	err = fn(ctx, tx)
	return err
}
