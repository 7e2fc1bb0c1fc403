package usecase

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

type DefaultCreditUsecase struct {
	Store   domain.Store
	Metrics *metrics.CreditMetrics
	Logger  *zap.Logger
}

func NewDefaultCreditUsecase(store domain.Store, creditMetrics *metrics.CreditMetrics, logger *zap.Logger) *DefaultCreditUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultCreditUsecase{
		Store:   store,
		Metrics: creditMetrics,
		Logger:  logger,
	}
}

func (uc *DefaultCreditUsecase) GetBalance(ctx context.Context, userID string) (*domain.CreditBalance, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	var balance *domain.CreditBalance
	err := uc.Store.InTx(ctx, func(tx domain.Store) error {
		var err error
		balance, err = tx.Credits().GetOrInit(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return balance, nil
}

func (uc *DefaultCreditUsecase) Debit(ctx context.Context, tx domain.Store, userID string, n int64, reason string) error {
	err := uc.run(ctx, tx, func(s domain.Store) error {
		return s.Credits().Debit(ctx, userID, n)
	})
	uc.record("debit", reason, n, err)
	if err != nil && !errors.Is(err, domain.ErrInsufficientCredits) {
		uc.Logger.Error("ledger debit failed",
			zap.String("user_id", userID),
			zap.Int64("credits", n),
			zap.String("reason", reason),
			zap.Error(err),
		)
	}
	return err
}

func (uc *DefaultCreditUsecase) Credit(ctx context.Context, tx domain.Store, userID string, n int64, reason string) error {
	err := uc.run(ctx, tx, func(s domain.Store) error {
		return s.Credits().Credit(ctx, userID, n)
	})
	uc.record("credit", reason, n, err)
	if err != nil {
		uc.Logger.Error("ledger credit failed",
			zap.String("user_id", userID),
			zap.Int64("credits", n),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return err
	}
	uc.Logger.Info("credits applied",
		zap.String("user_id", userID),
		zap.Int64("credits", n),
		zap.String("reason", reason),
	)
	return nil
}

func (uc *DefaultCreditUsecase) run(ctx context.Context, tx domain.Store, fn func(domain.Store) error) error {
	if tx != nil {
		return fn(tx)
	}
	return uc.Store.InTx(ctx, fn)
}

func (uc *DefaultCreditUsecase) record(operation, reason string, n int64, err error) {
	if uc.Metrics == nil {
		return
	}

	outcome := "ok"
	switch {
	case errors.Is(err, domain.ErrInsufficientCredits):
		outcome = "insufficient"
	case err != nil:
		outcome = "error"
	}
	uc.Metrics.LedgerOperationsTotal.WithLabelValues(operation, outcome).Inc()
	if err == nil {
		uc.Metrics.LedgerCreditsTotal.WithLabelValues(operation, reason).Add(float64(n))
	}
}
