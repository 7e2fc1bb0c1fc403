package models

import (
	"time"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"gorm.io/datatypes"
)

type GenerationHistoryModel struct {
	ID           string                      `gorm:"primaryKey;type:uuid"`
	UserID       string                      `gorm:"type:varchar(64);not null;index:idx_history_user_created,priority:1"`
	Prompt       string                      `gorm:"type:text;not null"`
	TaskID       *string                     `gorm:"type:varchar(128);index:idx_history_task"`
	Status       domain.GenerationStatus     `gorm:"type:varchar(16);not null;index:idx_history_status"`
	ImageURLs    datatypes.JSONSlice[string] `gorm:"column:image_urls"`
	ErrorMessage *string                     `gorm:"type:text"`
	CreatedAt    time.Time                   `gorm:"index:idx_history_user_created,priority:2"`
	UpdatedAt    time.Time
}

func (GenerationHistoryModel) TableName() string {
	return "generation_history"
}
