package payment

import (
	"context"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"go.uber.org/zap"
)

func (uc *DefaultPaymentUsecase) CancelOrder(ctx context.Context, userID, outTradeNo string) error {
	if userID == "" {
		return domain.ErrUnauthorized
	}

	order, err := uc.Store.Payments().GetForUser(ctx, userID, outTradeNo)
	if err != nil {
		return err
	}
	if order.Status != domain.PaymentPending {
		return domain.ErrInvalidTransition
	}

	moved := false
	err = uc.Store.InTx(ctx, func(tx domain.Store) error {
		var err error
		moved, err = tx.Payments().Transition(ctx, outTradeNo, domain.PaymentPending, domain.PaymentCancelled, domain.PaymentUpdate{})
		return err
	})
	if err != nil {
		return err
	}
	if !moved {
		// settled or failed between the read and the guard
		return domain.ErrInvalidTransition
	}

	order.Status = domain.PaymentCancelled
	uc.recordCancelled()
	uc.publish(order, "cancelled")
	uc.Logger.Info("payment order cancelled",
		zap.String("out_trade_no", outTradeNo),
		zap.String("user_id", userID),
	)
	return nil
}

// DeleteOrder hides the order from its owner. Settlement is never reversed.
func (uc *DefaultPaymentUsecase) DeleteOrder(ctx context.Context, userID, outTradeNo string) error {
	if userID == "" {
		return domain.ErrUnauthorized
	}

	deleted := false
	err := uc.Store.InTx(ctx, func(tx domain.Store) error {
		var err error
		deleted, err = tx.Payments().SoftDelete(ctx, userID, outTradeNo)
		return err
	})
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrOrderNotFound
	}

	uc.Logger.Info("payment order deleted",
		zap.String("out_trade_no", outTradeNo),
		zap.String("user_id", userID),
	)
	return nil
}
