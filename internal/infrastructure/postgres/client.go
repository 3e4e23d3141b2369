package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Fokku/flightbooker/internal/domain"
)

// Open connects to Postgres and verifies the connection.
func Open(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

// Now returns the database's own UTC clock. Every expiry comparison in this
// package goes through the same clock so host/DB skew cannot produce false
// expiry or false validity.
func Now(ctx context.Context, db *sqlx.DB) (time.Time, error) {
	var t time.Time
	if err := db.GetContext(ctx, &t, `SELECT now() AT TIME ZONE 'utc'`); err != nil {
		return time.Time{}, classify(err)
	}
	return t.UTC(), nil
}

// IsConflict reports whether err is a Postgres unique-constraint violation.
func IsConflict(err error) bool {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// classify maps driver errors onto domain sentinels. Anything unexpected is
// reported to clients as a database connection problem while the cause is
// kept for logs.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return domain.ErrNotFound
	case IsConflict(err):
		return domain.Wrap(domain.ErrConflict, "conflict", err)
	default:
		return domain.Wrap(domain.ErrUnavailable, "Database connection error", err)
	}
}
