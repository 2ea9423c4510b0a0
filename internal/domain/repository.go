package domain

import "context"

// TransactionStore owns the process-lifetime collection of transactions:
// insertion-ordered, keyed by id, never deleted.
type TransactionStore interface {
	Create(ctx context.Context, tx *Transaction) error
	Get(ctx context.Context, id string) (*Transaction, error)
	List(ctx context.Context) []*Transaction
	Count(ctx context.Context) int
}
