package ports

import "context"

// Transactor wraps multi-row writes in an all-or-nothing boundary. fn runs
// with a transaction-bound context; any error rolls back everything written
// inside it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
