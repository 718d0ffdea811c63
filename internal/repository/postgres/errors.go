package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"beanthere/internal/domain"
)

// IsPgDuplicateError checks if error is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	return pgCode(err) == "23505"
}

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgUndefinedTable checks if the relation does not exist yet
func IsPgUndefinedTable(err error) bool {
	return pgCode(err) == "42P01"
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// storeError wraps err with the operation name. A missing table or an
// unreachable server becomes a BackendUnavailableError for service.
func storeError(service, op string, err error) error {
	var connErr *pgconn.ConnectError
	if IsPgUndefinedTable(err) || errors.As(err, &connErr) {
		return &domain.BackendUnavailableError{Service: service, Err: fmt.Errorf("%s: %w", op, err)}
	}
	return fmt.Errorf("%s: %w", op, err)
}
