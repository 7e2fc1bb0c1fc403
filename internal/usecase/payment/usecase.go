package payment

import (
	"time"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/zpay"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	TradeStatusSuccess = "TRADE_SUCCESS"

	DefaultOrdersLimit = 10
	MaxOrdersLimit     = 100

	maxOrderNoAttempts = 3
)

var DefaultAmountTolerance = decimal.RequireFromString("0.01")

type DefaultPaymentUsecase struct {
	Store     domain.Store
	Ledger    domain.Ledger
	Gateway   domain.PaymentGateway
	Publisher domain.EventPublisher
	Metrics   *metrics.CreditMetrics
	Logger    *zap.Logger

	AmountTolerance decimal.Decimal
	NewOrderNo      func(now time.Time) (string, error)

	now func() time.Time
}

func NewDefaultPaymentUsecase(
	store domain.Store,
	ledger domain.Ledger,
	gateway domain.PaymentGateway,
	publisher domain.EventPublisher,
	creditMetrics *metrics.CreditMetrics,
	logger *zap.Logger,
	amountTolerance decimal.Decimal,
) *DefaultPaymentUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !amountTolerance.IsPositive() {
		amountTolerance = DefaultAmountTolerance
	}

	return &DefaultPaymentUsecase{
		Store:           store,
		Ledger:          ledger,
		Gateway:         gateway,
		Publisher:       publisher,
		Metrics:         creditMetrics,
		Logger:          logger,
		AmountTolerance: amountTolerance,
		NewOrderNo:      zpay.NewOutTradeNo,
		now:             time.Now,
	}
}

func (uc *DefaultPaymentUsecase) publish(order *domain.PaymentOrder, stage string) {
	if uc.Publisher == nil {
		return
	}

	go func(event domain.PaymentEvent) {
		if err := uc.Publisher.PublishPayment(event); err != nil {
			uc.Logger.Error("failed to publish payment event",
				zap.String("stage", event.Stage),
				zap.String("out_trade_no", event.OutTradeNo),
				zap.Error(err),
			)
		}
	}(domain.PaymentEvent{
		OutTradeNo:  order.OutTradeNo,
		UserID:      order.UserID,
		Stage:       stage,
		Status:      string(order.Status),
		Amount:      order.Amount.StringFixed(2),
		Credits:     order.Credits,
		PaymentType: string(order.PaymentType),
		TradeNo:     order.TradeNo,
		OccurredAt:  uc.now(),
	})
}
