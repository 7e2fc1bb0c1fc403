package mappers

import (
	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/postgres/models"
	"gorm.io/datatypes"
)

func ToDomainGenerationRecord(model *models.GenerationHistoryModel) *domain.GenerationRecord {
	record := &domain.GenerationRecord{
		ID:        model.ID,
		UserID:    model.UserID,
		Prompt:    model.Prompt,
		Status:    model.Status,
		ImageURLs: []string(model.ImageURLs),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if record.ImageURLs == nil {
		record.ImageURLs = []string{}
	}
	if model.TaskID != nil {
		record.TaskID = *model.TaskID
	}
	if model.ErrorMessage != nil {
		record.ErrorMessage = *model.ErrorMessage
	}
	return record
}

func ToGORMGenerationHistory(record *domain.GenerationRecord) *models.GenerationHistoryModel {
	urls := record.ImageURLs
	if urls == nil {
		urls = []string{}
	}
	return &models.GenerationHistoryModel{
		ID:           record.ID,
		UserID:       record.UserID,
		Prompt:       record.Prompt,
		TaskID:       nullable(record.TaskID),
		Status:       record.Status,
		ImageURLs:    datatypes.JSONSlice[string](urls),
		ErrorMessage: nullable(record.ErrorMessage),
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
