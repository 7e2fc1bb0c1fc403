package models

import "time"

type CreditBalanceModel struct {
	UserID    string `gorm:"primaryKey;type:varchar(64)"`
	Credits   int64  `gorm:"not null;default:0;check:chk_credit_balances_non_negative,credits >= 0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CreditBalanceModel) TableName() string {
	return "credit_balances"
}
