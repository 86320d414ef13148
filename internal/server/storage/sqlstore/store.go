// Package sqlstore implements the server storage interfaces on database/sql.
// Driver packages supply the connection and a Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// Dialect captures the differences between SQL backends.
type Dialect interface {
	// Placeholder returns the bind parameter for the n-th argument, starting at 1.
	Placeholder(n int) string
	// IsUniqueViolation reports whether err is a unique constraint failure.
	IsUniqueViolation(err error) bool
}

// Store implements storage.UserStorage, storage.RefreshTokenStorage,
// storage.ResetTokenStorage and storage.TaskStorage.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New wraps an open database.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DB returns the underlying database connection for testing purposes
func (s *Store) DB() *sql.DB {
	return s.db
}

// rebind rewrites ? placeholders for the dialect. Queries in this package
// never contain a literal question mark.
func (s *Store) rebind(query string) string {
	if s.dialect.Placeholder(1) == "?" {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(s.dialect.Placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Timestamps are stored as unix milliseconds so comparisons behave the same
// on every backend.

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func toNullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func fromNullMillis(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromMillis(n.Int64)
	return &t
}

type scanner interface {
	Scan(dest ...any) error
}
