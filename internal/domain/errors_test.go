package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBackendUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "typed", err: &BackendUnavailableError{Service: "reviews"}, want: true},
		{name: "wrapped typed", err: fmt.Errorf("list reviews: %w", &BackendUnavailableError{Service: "reviews"}), want: true},
		{name: "sentinel", err: fmt.Errorf("ping: %w", ErrBackendUnavailable), want: true},
		{name: "missing relation", err: errors.New(`relation "dev_reviews" does not exist`), want: true},
		{name: "store message", err: errors.New("Firestore is not available. Please enable it."), want: true},
		{name: "dial", err: errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), want: true},
		{name: "generic", err: errors.New("boom"), want: false},
		{name: "validation", err: ErrValidation, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBackendUnavailable(tt.err))
		})
	}
}

func TestTypedErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      HTTPError
		sentinel error
		status   int
	}{
		{name: "not found", err: &NotFoundError{Message: "x"}, sentinel: ErrNotFound, status: http.StatusNotFound},
		{name: "validation", err: &ValidationError{Message: "x"}, sentinel: ErrValidation, status: http.StatusBadRequest},
		{name: "unauthorized", err: &UnauthorizedError{Message: "x"}, sentinel: ErrUnauthorized, status: http.StatusUnauthorized},
		{name: "forbidden", err: &ForbiddenError{Message: "x"}, sentinel: ErrForbidden, status: http.StatusForbidden},
		{name: "conflict", err: &ConflictError{Message: "x"}, sentinel: ErrConflict, status: http.StatusConflict},
		{name: "unavailable", err: &BackendUnavailableError{Service: "x"}, sentinel: ErrBackendUnavailable, status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("op: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.sentinel))
			assert.Equal(t, tt.status, tt.err.StatusCode())
		})
	}
}
