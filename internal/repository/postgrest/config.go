// Package postgrest implements the repositories over Supabase's PostgREST
// API. Requests carry the caller's access token from the context, so row
// level security sees the signed-in user.
package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"beanthere/internal/database"
	"beanthere/internal/domain"
	"beanthere/internal/domain/repositories"
	"beanthere/internal/supabase"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Client *supabase.Client
	Tables *database.TableNames
	Logger *slog.Logger
}

// storeError wraps err with the operation name. Unavailable stores are
// reported under service so the handler can pick the remediation text.
func storeError(service, op string, err error) error {
	if errors.Is(err, domain.ErrBackendUnavailable) {
		var typed *domain.BackendUnavailableError
		if errors.As(err, &typed) && typed.Service == service {
			return err
		}
		return &domain.BackendUnavailableError{Service: service, Err: fmt.Errorf("%s: %w", op, err)}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// decodeOne decodes a representation array and returns its first row.
func decodeOne[T any](resp *supabase.Response) (*T, bool, error) {
	var rows []T
	if err := json.Unmarshal(resp.Body, &rows); err != nil {
		return nil, false, fmt.Errorf("decode rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return &rows[0], true, nil
}

// TransactionManager runs fn directly. PostgREST has no multi-request
// transactions; each write is atomic on its own.
type TransactionManager struct{}

// NewTransactionManager creates the pass-through transaction manager
func NewTransactionManager() repositories.TransactionManager {
	return TransactionManager{}
}

func (TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
