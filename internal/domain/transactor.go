package domain

import "context"

// Transactor runs a function inside a single entity-store transaction.
// Repositories resolve the transaction from the context they receive, so a
// lifecycle operation can mutate a booking and its car atomically.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
