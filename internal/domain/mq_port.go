package domain

import "time"

type Message struct {
	Key   []byte
	Value []byte
}

type PublisherPort interface {
	Publish(topic string, msgs ...Message) error
}

// EventPublisher receives domain events after the owning transaction commits.
type EventPublisher interface {
	PublishPayment(event PaymentEvent) error
	PublishGeneration(event GenerationEvent) error
}

type PaymentEvent struct {
	OutTradeNo  string    `json:"out_trade_no"`
	UserID      string    `json:"user_id"`
	Stage       string    `json:"stage"`
	Status      string    `json:"status"`
	Amount      string    `json:"amount"`
	Credits     int64     `json:"credits"`
	PaymentType string    `json:"payment_type"`
	TradeNo     string    `json:"trade_no,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type GenerationEvent struct {
	HistoryID    string    `json:"history_id"`
	UserID       string    `json:"user_id"`
	TaskID       string    `json:"task_id,omitempty"`
	Stage        string    `json:"stage"`
	Status       string    `json:"status"`
	ImageCount   int       `json:"image_count"`
	ErrorMessage string    `json:"error_message,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
