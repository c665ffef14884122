// Package postgres implements the domain stores on PostgreSQL with pgx.
package postgres

import (
	"context"
	"errors"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

// DB wraps the pool and implements domain.Transactor. Every store method
// runs on the transaction carried by ctx when there is one.
type DB struct {
	pool *pgxpool.Pool
}

var _ domain.Transactor = (*DB)(nil)

func New(pool *pgxpool.Pool) *DB {
	return &DB{pool: pool}
}

func (db *DB) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db.pool
}

// WithinTx runs fn in a transaction, committing when fn returns nil.
// Nested calls join the outer transaction.
func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}
	return pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Ping checks database connectivity for the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
	pgDeadlock        = "40P01"
)

// mapError turns driver errors into domain errors.
func mapError(err error, op, resource, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFound(op, resource, id)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return domain.WrapError(err, domain.ECONFLICT, op, resource+" already exists")
		case pgCheckViolation:
			return domain.WrapError(err, domain.EINVALID, op, resource+" violates "+pgErr.ConstraintName)
		case pgDeadlock:
			return domain.WrapError(err, domain.ECONFLICT, op, resource+" was changed concurrently, try again")
		}
	}
	return domain.Internal(err, op, "failed to access "+resource)
}

func clampPage(limit, offset, def, max int) (int, int) {
	if limit <= 0 || limit > max {
		limit = def
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
