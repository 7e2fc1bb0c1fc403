package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSuccess   PaymentStatus = "success"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
)

type PaymentType string

const (
	PaymentTypeAlipay PaymentType = "alipay"
	PaymentTypeWxpay  PaymentType = "wxpay"
)

func (t PaymentType) Valid() bool {
	return t == PaymentTypeAlipay || t == PaymentTypeWxpay
}

type PaymentOrder struct {
	OutTradeNo  string
	TradeNo     string
	UserID      string
	Amount      decimal.Decimal
	Credits     int64
	PaymentType PaymentType
	Status      PaymentStatus
	NotifyData  map[string]string
	CreatedAt   time.Time
	PaidAt      *time.Time
}

type PaymentUpdate struct {
	TradeNo    string
	NotifyData map[string]string
	PaidAt     *time.Time
}

// PaymentOrderRepository lookups by owner skip deleted orders, GetByOutTradeNo
// does not: a late notification must still find a deleted order.
type PaymentOrderRepository interface {
	Create(ctx context.Context, order *PaymentOrder) error
	GetByOutTradeNo(ctx context.Context, outTradeNo string) (*PaymentOrder, error)
	GetForUser(ctx context.Context, userID, outTradeNo string) (*PaymentOrder, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*PaymentOrder, error)
	Transition(ctx context.Context, outTradeNo string, from, to PaymentStatus, update PaymentUpdate) (bool, error)
	SoftDelete(ctx context.Context, userID, outTradeNo string) (bool, error)
}

type OpenOrderInput struct {
	UserID      string
	Amount      decimal.Decimal
	Credits     int64
	PaymentType PaymentType
}

type OpenOrderOutput struct {
	PaymentURL string
	OutTradeNo string
}

type SettleResult string

const (
	SettleApplied       SettleResult = "applied"
	SettleAlreadyPaid   SettleResult = "already_paid"
	SettleIgnored       SettleResult = "ignored"
	SettleOrderInactive SettleResult = "order_inactive"
)

type PaymentUsecase interface {
	OpenOrder(ctx context.Context, input OpenOrderInput) (*OpenOrderOutput, error)
	Settle(ctx context.Context, params map[string]string) (SettleResult, error)
	CheckOrder(ctx context.Context, userID, outTradeNo string) (*PaymentOrder, error)
	CancelOrder(ctx context.Context, userID, outTradeNo string) error
	DeleteOrder(ctx context.Context, userID, outTradeNo string) error
	ListOrders(ctx context.Context, userID string, limit int) ([]*PaymentOrder, error)
}
