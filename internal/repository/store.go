// Package repository is the Postgres implementation of the store
// contracts, written against pgx.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tmercadante/leanscreen-go/internal/store"
)

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so
// the same repository code runs inside and outside a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore implements store.Store over a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	q    querier
}

// NewPostgresStore creates the root store over an established pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, q: pool}
}

func (s *PostgresStore) Entries() store.EntryStore            { return &EntryRepository{q: s.q} }
func (s *PostgresStore) Streaks() store.StreakStore           { return &StreakRepository{q: s.q} }
func (s *PostgresStore) Profiles() store.ProfileProvider      { return &UserRepository{q: s.q} }
func (s *PostgresStore) Visibility() store.VisibilityProvider { return &UserRepository{q: s.q} }

// WithinTx runs fn against a store view bound to one transaction.
// Nested calls reuse the outer transaction.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(store.Store) error) error {
	if _, ok := s.q.(pgx.Tx); ok {
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&PostgresStore{pool: s.pool, q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// failure (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
