// Package repository provides generic database query helpers shared by the
// data access layers.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Querier abstracts the query surface shared by *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Scanner abstracts row scanning across *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanFunc maps a scanned row to a value of type T.
type ScanFunc[T any] func(s Scanner) (T, error)

// WithTx executes fn within a transaction, committing on success and rolling
// back on error or panic.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// QueryOne executes a query expected to return a single row and maps it with
// scan. A missing row is reported as ErrNotFound.
func QueryOne[T any](ctx context.Context, q Querier, query string, scan ScanFunc[T], args ...any) (T, error) {
	var zero T

	row := q.QueryRowContext(ctx, query, args...)

	result, err := scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, ErrNotFound
		}
		return zero, MapError(err)
	}

	return result, nil
}

// QueryMany executes a query and maps every returned row with scan.
func QueryMany[T any](ctx context.Context, q Querier, query string, scan ScanFunc[T], args ...any) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	results := make([]T, 0)

	for rows.Next() {
		result, err := scan(rows)
		if err != nil {
			return nil, MapError(err)
		}

		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return results, nil
}

// ExecExpectOne executes a statement and verifies exactly one row was
// affected. Zero affected rows are reported as ErrNotFound.
func ExecExpectOne(ctx context.Context, q Querier, query string, args ...any) error {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	if affected > 1 {
		return fmt.Errorf("expected one affected row, got %d", affected)
	}

	return nil
}
