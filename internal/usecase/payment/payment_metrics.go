package payment

import "github.com/LavaJover/shvark-credit-service/internal/domain"

func (uc *DefaultPaymentUsecase) recordOpened(order *domain.PaymentOrder) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.PaymentOrdersOpenedTotal.WithLabelValues(string(order.PaymentType)).Inc()
}

func (uc *DefaultPaymentUsecase) recordSettlement(outcome string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.PaymentSettlementsTotal.WithLabelValues(outcome).Inc()
}

// recordSettled - credits applied for a paid order
func (uc *DefaultPaymentUsecase) recordSettled(order *domain.PaymentOrder) {
	if uc.Metrics == nil {
		return
	}

	uc.Metrics.PaymentSettlementsTotal.WithLabelValues("applied").Inc()
	amount, _ := order.Amount.Float64()
	uc.Metrics.PaymentAmountSettledTotal.WithLabelValues(string(order.PaymentType)).Add(amount)
	if !order.CreatedAt.IsZero() && order.PaidAt != nil {
		uc.Metrics.PaymentSettleDuration.Observe(order.PaidAt.Sub(order.CreatedAt).Seconds())
	}
}

func (uc *DefaultPaymentUsecase) recordCancelled() {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.PaymentSettlementsTotal.WithLabelValues("cancelled").Inc()
}
