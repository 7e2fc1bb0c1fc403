package domain

import (
	"context"
	"time"
)

type CreditBalance struct {
	UserID    string
	Credits   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreditRepository applies every call exactly once. Debit and Credit create
// the balance with the initial grant first when the user has none.
type CreditRepository interface {
	GetOrInit(ctx context.Context, userID string) (*CreditBalance, error)
	Debit(ctx context.Context, userID string, n int64) error
	Credit(ctx context.Context, userID string, n int64) error
}

// Ledger is the only component allowed to move credits. Debit and Credit
// join tx when it is non-nil, otherwise they run in their own transaction.
type Ledger interface {
	GetBalance(ctx context.Context, userID string) (*CreditBalance, error)
	Debit(ctx context.Context, tx Store, userID string, n int64, reason string) error
	Credit(ctx context.Context, tx Store, userID string, n int64, reason string) error
}

const (
	ReasonGeneration   = "generation"
	ReasonCompensation = "compensation"
	ReasonPurchase     = "purchase"
	ReasonManual       = "manual"
)
