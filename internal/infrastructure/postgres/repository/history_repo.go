package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DefaultHistoryRepository struct {
	DB *gorm.DB
}

func NewDefaultHistoryRepository(db *gorm.DB) *DefaultHistoryRepository {
	return &DefaultHistoryRepository{DB: db}
}

func (r *DefaultHistoryRepository) Create(ctx context.Context, record *domain.GenerationRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	model := mappers.ToGORMGenerationHistory(record)
	if err := r.DB.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create history record: %w", translateError(err))
	}
	record.CreatedAt = model.CreatedAt
	record.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *DefaultHistoryRepository) GetByID(ctx context.Context, id string) (*domain.GenerationRecord, error) {
	var model models.GenerationHistoryModel
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, translateError(err)
	}
	return mappers.ToDomainGenerationRecord(&model), nil
}

func (r *DefaultHistoryRepository) GetByTaskID(ctx context.Context, userID, taskID string) (*domain.GenerationRecord, error) {
	var model models.GenerationHistoryModel
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND task_id = ?", userID, taskID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, translateError(err)
	}
	return mappers.ToDomainGenerationRecord(&model), nil
}

func (r *DefaultHistoryRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.GenerationRecord, error) {
	var rows []models.GenerationHistoryModel
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", translateError(err))
	}

	records := make([]*domain.GenerationRecord, 0, len(rows))
	for i := range rows {
		records = append(records, mappers.ToDomainGenerationRecord(&rows[i]))
	}
	return records, nil
}

// ListStalePending returns pending records that never received a task id,
// oldest first.
func (r *DefaultHistoryRepository) ListStalePending(ctx context.Context, before time.Time, limit int) ([]*domain.GenerationRecord, error) {
	var rows []models.GenerationHistoryModel
	err := r.DB.WithContext(ctx).
		Where("status = ? AND task_id IS NULL AND created_at < ?", string(domain.GenerationPending), before).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stale history: %w", translateError(err))
	}

	records := make([]*domain.GenerationRecord, 0, len(rows))
	for i := range rows {
		records = append(records, mappers.ToDomainGenerationRecord(&rows[i]))
	}
	return records, nil
}

// UpdateStatus moves the record only while its status is one of from.
func (r *DefaultHistoryRepository) UpdateStatus(ctx context.Context, id string, from []domain.GenerationStatus, update domain.HistoryUpdate) (bool, error) {
	values := map[string]interface{}{"status": update.Status}
	if update.TaskID != "" {
		values["task_id"] = update.TaskID
	}
	if update.ErrorMessage != "" {
		values["error_message"] = update.ErrorMessage
	}

	res := r.DB.WithContext(ctx).
		Model(&models.GenerationHistoryModel{}).
		Where("id = ? AND status IN ?", id, statusStrings(from)).
		Updates(values)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update history status: %w", translateError(res.Error))
	}
	return res.RowsAffected == 1, nil
}

// AppendResult stores the result urls and completes a non-terminal record.
func (r *DefaultHistoryRepository) AppendResult(ctx context.Context, id string, imageURLs []string) (bool, error) {
	if imageURLs == nil {
		imageURLs = []string{}
	}
	res := r.DB.WithContext(ctx).
		Model(&models.GenerationHistoryModel{}).
		Where("id = ? AND status IN ?", id, statusStrings(domain.NonTerminalGenerationStatuses)).
		Updates(map[string]interface{}{
			"status":     domain.GenerationCompleted,
			"image_urls": datatypes.JSONSlice[string](imageURLs),
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to store generation result: %w", translateError(res.Error))
	}
	return res.RowsAffected == 1, nil
}

func statusStrings(statuses []domain.GenerationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
