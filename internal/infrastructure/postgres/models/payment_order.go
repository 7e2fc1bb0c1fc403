package models

import (
	"time"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentOrderModel struct {
	ID          uint                 `gorm:"primaryKey"`
	OutTradeNo  string               `gorm:"type:varchar(32);not null;uniqueIndex:idx_payment_orders_out_trade_no"`
	TradeNo     *string              `gorm:"type:varchar(64);index:idx_payment_orders_trade_no"`
	UserID      string               `gorm:"type:varchar(64);not null;index:idx_payment_orders_user_created,priority:1"`
	Amount      decimal.Decimal      `gorm:"type:decimal(10,2);not null"`
	Credits     int64                `gorm:"not null"`
	PaymentType domain.PaymentType   `gorm:"type:varchar(16);not null"`
	Status      domain.PaymentStatus `gorm:"type:varchar(16);not null;index:idx_payment_orders_status"`
	NotifyData  datatypes.JSONMap
	CreatedAt   time.Time `gorm:"index:idx_payment_orders_user_created,priority:2"`
	UpdatedAt   time.Time
	PaidAt      *time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (PaymentOrderModel) TableName() string {
	return "payment_orders"
}
