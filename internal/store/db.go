package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const openPingTimeout = 2 * time.Second

// DB is the record store handle. It is opened once at process start and
// threaded through the pipeline explicitly; there is no package-level
// singleton.
type DB struct {
	Pool *sql.DB
}

// Open connects to the SQLite file at path, creating it if absent.
// WAL keeps readers unblocked during a run's writes; the busy timeout
// covers the brief checkpoint locks.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// One connection: a single writer is all sqlite wants, and it keeps
	// the pragmas applied to every statement.
	pool.SetMaxOpenConns(1)
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), openPingTimeout)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}

	return &DB{Pool: pool}, nil
}

// Checkpoint flushes the WAL back into the main database file.
func (d *DB) Checkpoint() error {
	_, err := d.Pool.Exec(`PRAGMA wal_checkpoint(FULL);`)
	return err
}

func (d *DB) Close() error {
	if d == nil || d.Pool == nil {
		return nil
	}
	return d.Pool.Close()
}
