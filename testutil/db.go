// Package testutil provides shared helpers for integration tests. Every
// helper keys off the TEST_DATABASE_URL environment variable and skips the
// calling test when it is unset, so the unit-test suite runs green on
// machines without a Postgres instance.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
)

// dsnEnv names the environment variable holding the test database DSN.
const dsnEnv = "TEST_DATABASE_URL"

// NewPool opens a *pgxpool.Pool against the test database and pings it.
// The pool is closed when the test (including subtests) finishes.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), dsn(t))
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB opens a *sql.DB against the test database via the pgx
// database/sql driver. Goose needs this shape rather than a pgx pool.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", dsn(t))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: open: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// MustOpenSQLDB opens a *sql.DB for the given DSN, panicking on failure.
// For TestMain, where no *testing.T exists; the caller closes the handle.
func MustOpenSQLDB(dsn string) *sql.DB {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		panic("testutil.MustOpenSQLDB: open: " + err.Error())
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		panic("testutil.MustOpenSQLDB: ping: " + err.Error())
	}
	return db
}

// dsn returns the configured test DSN, skipping the test without one.
func dsn(t *testing.T) string {
	t.Helper()
	v := os.Getenv(dsnEnv)
	if v == "" {
		t.Skipf("%s not set; skipping integration test", dsnEnv)
	}
	return v
}
