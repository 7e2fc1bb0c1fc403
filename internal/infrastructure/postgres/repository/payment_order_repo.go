package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPaymentOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultPaymentOrderRepository(db *gorm.DB) *DefaultPaymentOrderRepository {
	return &DefaultPaymentOrderRepository{DB: db}
}

func (r *DefaultPaymentOrderRepository) Create(ctx context.Context, order *domain.PaymentOrder) error {
	model := mappers.ToGORMPaymentOrder(order)
	if err := r.DB.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateOrderNo
		}
		return fmt.Errorf("failed to create payment order: %w", translateError(err))
	}
	order.CreatedAt = model.CreatedAt
	return nil
}

// GetByOutTradeNo includes soft-deleted orders.
func (r *DefaultPaymentOrderRepository) GetByOutTradeNo(ctx context.Context, outTradeNo string) (*domain.PaymentOrder, error) {
	var model models.PaymentOrderModel
	if err := r.DB.WithContext(ctx).Unscoped().Where("out_trade_no = ?", outTradeNo).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, translateError(err)
	}
	return mappers.ToDomainPaymentOrder(&model), nil
}

func (r *DefaultPaymentOrderRepository) GetForUser(ctx context.Context, userID, outTradeNo string) (*domain.PaymentOrder, error) {
	var model models.PaymentOrderModel
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND out_trade_no = ?", userID, outTradeNo).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, translateError(err)
	}
	return mappers.ToDomainPaymentOrder(&model), nil
}

func (r *DefaultPaymentOrderRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.PaymentOrder, error) {
	var rows []models.PaymentOrderModel
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payment orders: %w", translateError(err))
	}

	orders := make([]*domain.PaymentOrder, 0, len(rows))
	for i := range rows {
		orders = append(orders, mappers.ToDomainPaymentOrder(&rows[i]))
	}
	return orders, nil
}

// Transition is a compare-and-swap on status. It reports whether this call
// moved the order from `from` to `to`.
func (r *DefaultPaymentOrderRepository) Transition(ctx context.Context, outTradeNo string, from, to domain.PaymentStatus, update domain.PaymentUpdate) (bool, error) {
	values := map[string]interface{}{"status": to}
	if update.TradeNo != "" {
		values["trade_no"] = update.TradeNo
	}
	if update.NotifyData != nil {
		values["notify_data"] = mappers.ToNotifyData(update.NotifyData)
	}
	if update.PaidAt != nil {
		values["paid_at"] = *update.PaidAt
	}

	res := r.DB.WithContext(ctx).
		Unscoped().
		Model(&models.PaymentOrderModel{}).
		Where("out_trade_no = ? AND status = ?", outTradeNo, from).
		Updates(values)
	if res.Error != nil {
		return false, fmt.Errorf("failed to transition payment order: %w", translateError(res.Error))
	}
	return res.RowsAffected == 1, nil
}

func (r *DefaultPaymentOrderRepository) SoftDelete(ctx context.Context, userID, outTradeNo string) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND out_trade_no = ?", userID, outTradeNo).
		Delete(&models.PaymentOrderModel{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete payment order: %w", translateError(res.Error))
	}
	return res.RowsAffected == 1, nil
}
