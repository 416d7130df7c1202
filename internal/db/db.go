// Package db owns the aide SQLite file: where it lives, how it is opened
// and which schema version it carries. Record access lives in package
// store; this package hands it a ready *sql.DB.
//
// The connection pool is pinned to a single connection. SQLite allows one
// writer at a time and every caller in aide is short-lived, so queuing on
// one connection avoids SQLITE_BUSY without retry loops.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DB is an open, migrated database.
type DB struct {
	conn *sql.DB
	path string
}

// dsn builds the go-sqlite3 connection string: write-ahead logging,
// enforced foreign keys and a five second busy wait.
func dsn(path string) string {
	q := url.Values{}
	q.Set("_journal_mode", "WAL")
	q.Set("_foreign_keys", "on")
	q.Set("_busy_timeout", "5000")
	return "file:" + path + "?" + q.Encode()
}

// Open creates the file and its directory if needed, then brings the
// schema up to date.
func Open(path string) (*DB, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("db: resolve %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("db: create directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", dsn(abs))
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", abs, err)
	}
	conn.SetMaxOpenConns(1)

	if err := applyMigrations(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db: migrate %s: %w", abs, err)
	}
	return &DB{conn: conn, path: abs}, nil
}

// Conn is the pool package store runs its queries on.
func (d *DB) Conn() *sql.DB { return d.conn }

// Path is the absolute location of the database file.
func (d *DB) Path() string { return d.path }

func (d *DB) Close() error { return d.conn.Close() }

// Version returns the highest applied migration index, or -1 when none
// has been recorded.
func (d *DB) Version() (int, error) {
	var v sql.NullInt64
	if err := d.conn.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		return -1, fmt.Errorf("db: read schema version: %w", err)
	}
	if !v.Valid {
		return -1, nil
	}
	return int(v.Int64), nil
}

// Size is the bytes on disk, counting the write-ahead log that holds
// writes not yet checkpointed into the main file.
func (d *DB) Size() (int64, error) {
	var total int64
	for _, p := range []string{d.path, d.path + "-wal"} {
		fi, err := os.Stat(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("db: stat %s: %w", p, err)
		}
		total += fi.Size()
	}
	return total, nil
}
