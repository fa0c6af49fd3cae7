package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound indicates no row matched the query.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("record already exists")
)

// MapError translates driver-level errors into sentinel errors where a
// mapping exists.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505: unique_violation
		if pgErr.Code == "23505" {
			return ErrDuplicate
		}
	}

	return err
}
