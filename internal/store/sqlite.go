package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vmunix/voseflix/internal/migrations"
)

// OpenDB opens (creating if needed) the SQLite database at path and applies
// the schema. Use ":memory:" for a throwaway database.
func OpenDB(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// SQLite is a Store backed by the cache_entries table, scoped to one namespace.
type SQLite struct {
	db        *sql.DB
	namespace string
	now       Clock
}

// SQLiteOption configures a SQLite store.
type SQLiteOption func(*SQLite)

// WithSQLiteClock sets the clock used for expiry (for testing).
func WithSQLiteClock(now Clock) SQLiteOption {
	return func(s *SQLite) {
		s.now = now
	}
}

// NewSQLite creates a store for the given namespace.
func NewSQLite(db *sql.DB, namespace string, opts ...SQLiteOption) *SQLite {
	s := &SQLite{db: db, namespace: namespace, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves a cached value by key.
// Returns nil, false if not found or expired.
func (s *SQLite) Get(ctx context.Context, key string) ([]byte, bool) {
	var value []byte
	var expiresAt sql.NullInt64

	err := s.db.QueryRowContext(ctx,
		"SELECT value, expires_at FROM cache_entries WHERE namespace = ? AND key = ?",
		s.namespace, key,
	).Scan(&value, &expiresAt)
	if err != nil {
		return nil, false
	}
	if expiresAt.Valid && s.now().UnixMilli() >= expiresAt.Int64 {
		return nil, false
	}
	return value, true
}

// Set stores a value with the given TTL.
func (s *SQLite) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt sql.NullInt64
	if at, ok := expiry(s.now(), ttl); ok {
		expiresAt = sql.NullInt64{Int64: at.UnixMilli(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (namespace, key, value, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		s.namespace, key, value, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached value.
func (s *SQLite) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM cache_entries WHERE namespace = ? AND key = ?", s.namespace, key)
	if err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// Clear removes every entry in the namespace.
func (s *SQLite) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE namespace = ?", s.namespace)
	if err != nil {
		return fmt.Errorf("cache clear %s: %w", s.namespace, err)
	}
	return nil
}

// Prune removes expired entries in the namespace.
// Returns the number of entries removed.
func (s *SQLite) Prune(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM cache_entries WHERE namespace = ? AND expires_at IS NOT NULL AND expires_at <= ?",
		s.namespace, s.now().UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("cache prune: %w", err)
	}
	return result.RowsAffected()
}

// Stats summarizes a namespace.
type Stats struct {
	Namespace string `json:"namespace"`
	Entries   int64  `json:"entries"`
	Expired   int64  `json:"expired"`
}

// Stats counts live and expired entries in the namespace.
func (s *SQLite) Stats(ctx context.Context) (Stats, error) {
	st := Stats{Namespace: s.namespace}
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN expires_at IS NOT NULL AND expires_at <= ? THEN 1 ELSE 0 END), 0)
		 FROM cache_entries WHERE namespace = ?`,
		s.now().UnixMilli(), s.namespace,
	).Scan(&st.Entries, &st.Expired)
	if err != nil {
		return st, fmt.Errorf("cache stats: %w", err)
	}
	return st, nil
}
