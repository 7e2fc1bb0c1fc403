package response

import "time"

type OpenOrderResponse struct {
	PaymentURL string `json:"paymentUrl"`
	OutTradeNo string `json:"outTradeNo"`
}

type OrderResponse struct {
	OutTradeNo  string     `json:"outTradeNo"`
	TradeNo     string     `json:"tradeNo,omitempty"`
	Status      string     `json:"status"`
	Amount      string     `json:"amount"`
	Credits     int64      `json:"credits"`
	PaymentType string     `json:"paymentType"`
	CreatedAt   time.Time  `json:"createdAt"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
}

type OrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}
