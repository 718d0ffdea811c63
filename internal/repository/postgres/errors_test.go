package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"beanthere/internal/domain"
)

func TestStoreError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		unavailable bool
	}{
		{name: "undefined table", err: &pgconn.PgError{Code: "42P01", Message: `relation "dev_reviews" does not exist`}, unavailable: true},
		{name: "wrapped undefined table", err: fmt.Errorf("query: %w", &pgconn.PgError{Code: "42P01"}), unavailable: true},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}},
		{name: "plain", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := storeError("reviews", "list reviews", tt.err)

			assert.Equal(t, tt.unavailable, errors.Is(err, domain.ErrBackendUnavailable))
			assert.ErrorIs(t, err, tt.err)
			assert.Contains(t, err.Error(), "list reviews")
		})
	}
}

func TestPgErrorHelpers(t *testing.T) {
	assert.True(t, IsPgDuplicateError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsPgDuplicateError(errors.New("23505")))
	assert.True(t, IsPgNoRowsError(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.True(t, IsPgUndefinedTable(&pgconn.PgError{Code: "42P01"}))
}
