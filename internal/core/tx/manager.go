// Package tx provides transaction management abstractions.
// Callers above the storage layer depend on these interfaces only; the
// implementation lives in infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager runs fn within a database transaction carried in ctx.
// If fn returns an error the transaction is rolled back, otherwise committed.
// Nested calls reuse the transaction already in ctx.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transactions.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error

	// Snapshot executes fn in a repeatable-read read-only transaction, so
	// all reads inside fn observe one committed state.
	Snapshot(ctx context.Context, fn func(ctx context.Context) error) error
}
