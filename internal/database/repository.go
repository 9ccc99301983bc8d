package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique constraint (flight number,
	// aircraft number, airport code, email) rejects an insert.
	ErrConflict = errors.New("already exists")
)

// Repository handles all database operations.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository over a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Ping verifies database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// isUniqueViolation reports whether err is a Postgres duplicate-key error.
// The unique index on flights.flight_number is the last-resort backstop for
// concurrent template expansions racing on the same date.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
