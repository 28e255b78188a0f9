package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)
	return db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n))
	return n
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO kv(key, value) VALUES ('a', '[]')`)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 1, countRows(t, db))
}

func TestWithTx_ReadModifyWriteSeesOwnWrites(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO kv(key, value) VALUES ('a', 'x')`); err != nil {
			return err
		}
		var v string
		if err := tx.QueryRowContext(ctx, `SELECT value FROM kv WHERE key='a'`).Scan(&v); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE kv SET value=? WHERE key='a'`, v+"y")
		return err
	})
	require.NoError(t, err)

	var got string
	require.NoError(t, db.QueryRow(`SELECT value FROM kv WHERE key='a'`).Scan(&got))
	require.Equal(t, "xy", got)
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	db := setupDB(t)
	boom := errors.New("boom")

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO kv(key, value) VALUES ('a', '[]')`)
		require.NoError(t, e)
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, countRows(t, db))
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.Equal(t, 0, countRows(t, db))
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO kv(key, value) VALUES ('a', '[]')`)
		require.NoError(t, e)
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return nil
	})
	require.ErrorContains(t, err, "begin tx")
}
