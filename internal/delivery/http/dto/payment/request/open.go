package request

import "github.com/shopspring/decimal"

type OpenOrderRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Credits     int64           `json:"credits"`
	PaymentType string          `json:"paymentType" binding:"required"`
}
