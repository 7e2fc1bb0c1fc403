package payment

import (
	"context"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
)

func (uc *DefaultPaymentUsecase) CheckOrder(ctx context.Context, userID, outTradeNo string) (*domain.PaymentOrder, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	return uc.Store.Payments().GetForUser(ctx, userID, outTradeNo)
}

func (uc *DefaultPaymentUsecase) ListOrders(ctx context.Context, userID string, limit int) ([]*domain.PaymentOrder, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if limit <= 0 {
		limit = DefaultOrdersLimit
	}
	if limit > MaxOrdersLimit {
		limit = MaxOrdersLimit
	}
	return uc.Store.Payments().ListByUser(ctx, userID, limit)
}
