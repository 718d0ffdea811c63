package repositories

import "context"

// TxFn is a unit of work run inside a transaction
type TxFn func(ctx context.Context) error

// TransactionManager runs work atomically. The Postgres backend uses a real
// transaction; the PostgREST backend has no multi-statement transactions and
// runs fn directly.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
