package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultCreditRepository struct {
	DB           *gorm.DB
	InitialGrant int64
}

func NewDefaultCreditRepository(db *gorm.DB, initialGrant int64) *DefaultCreditRepository {
	return &DefaultCreditRepository{DB: db, InitialGrant: initialGrant}
}

// ensure inserts the initial balance unless a row already exists. Concurrent
// first reads race on the primary key and all but one insert become no-ops.
func (r *DefaultCreditRepository) ensure(ctx context.Context, userID string) error {
	balance := models.CreditBalanceModel{UserID: userID, Credits: r.InitialGrant}
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&balance).Error
	if err != nil {
		return fmt.Errorf("failed to init credit balance: %w", translateError(err))
	}
	return nil
}

func (r *DefaultCreditRepository) GetOrInit(ctx context.Context, userID string) (*domain.CreditBalance, error) {
	if err := r.ensure(ctx, userID); err != nil {
		return nil, err
	}

	var model models.CreditBalanceModel
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		return nil, fmt.Errorf("failed to load credit balance: %w", translateError(err))
	}
	return mappers.ToDomainCreditBalance(&model), nil
}

// Debit decrements only while the balance covers n. The guard and the
// decrement are one statement, so concurrent debits cannot overdraw.
func (r *DefaultCreditRepository) Debit(ctx context.Context, userID string, n int64) error {
	if n <= 0 {
		return domain.ErrInvalidAmount
	}
	if err := r.ensure(ctx, userID); err != nil {
		return err
	}

	res := r.DB.WithContext(ctx).
		Model(&models.CreditBalanceModel{}).
		Where("user_id = ? AND credits >= ?", userID, n).
		Update("credits", gorm.Expr("credits - ?", n))
	if res.Error != nil {
		return fmt.Errorf("failed to debit credits: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return domain.ErrInsufficientCredits
	}
	return nil
}

func (r *DefaultCreditRepository) Credit(ctx context.Context, userID string, n int64) error {
	if n <= 0 {
		return domain.ErrInvalidAmount
	}
	if err := r.ensure(ctx, userID); err != nil {
		return err
	}

	res := r.DB.WithContext(ctx).
		Model(&models.CreditBalanceModel{}).
		Where("user_id = ?", userID).
		Update("credits", gorm.Expr("credits + ?", n))
	if res.Error != nil {
		return fmt.Errorf("failed to credit credits: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("credit balance for %s vanished: %w", userID, domain.ErrStoreConflict)
	}
	return nil
}
