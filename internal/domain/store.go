package domain

import "context"

// Store is the transactional backing store. Repositories obtained from the
// Store passed to fn share one transaction.
type Store interface {
	Credits() CreditRepository
	History() HistoryRepository
	Payments() PaymentOrderRepository
	InTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}
