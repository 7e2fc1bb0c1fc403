package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"go.uber.org/zap"
)

// OpenOrder persists a pending order and returns the signed gateway redirect.
// Order number collisions are caught by the unique index and regenerated.
func (uc *DefaultPaymentUsecase) OpenOrder(ctx context.Context, input domain.OpenOrderInput) (*domain.OpenOrderOutput, error) {
	if input.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if !input.PaymentType.Valid() {
		return nil, domain.ErrInvalidPaymentType
	}
	amount := input.Amount.Round(2)
	if !amount.IsPositive() || input.Credits <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	order := &domain.PaymentOrder{
		UserID:      input.UserID,
		Amount:      amount,
		Credits:     input.Credits,
		PaymentType: input.PaymentType,
		Status:      domain.PaymentPending,
	}

	var redirect *domain.RedirectDescriptor
	for attempt := 1; ; attempt++ {
		no, err := uc.NewOrderNo(uc.now())
		if err != nil {
			return nil, err
		}
		order.OutTradeNo = no

		redirect, err = uc.Gateway.BuildRedirect(order)
		if err != nil {
			return nil, fmt.Errorf("failed to build payment redirect: %w", err)
		}

		err = uc.Store.InTx(ctx, func(tx domain.Store) error {
			return tx.Payments().Create(ctx, order)
		})
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicateOrderNo) || attempt == maxOrderNoAttempts {
			return nil, err
		}
		uc.Logger.Warn("order number collision, regenerating",
			zap.String("out_trade_no", no),
			zap.Int("attempt", attempt),
		)
	}

	uc.recordOpened(order)
	uc.publish(order, "opened")
	uc.Logger.Info("payment order opened",
		zap.String("out_trade_no", order.OutTradeNo),
		zap.String("user_id", order.UserID),
		zap.String("amount", order.Amount.StringFixed(2)),
		zap.Int64("credits", order.Credits),
		zap.String("payment_type", string(order.PaymentType)),
	)

	return &domain.OpenOrderOutput{
		PaymentURL: redirect.URL,
		OutTradeNo: order.OutTradeNo,
	}, nil
}
