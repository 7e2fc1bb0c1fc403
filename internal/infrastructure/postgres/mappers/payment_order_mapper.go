package mappers

import (
	"fmt"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/postgres/models"
	"gorm.io/datatypes"
)

func ToDomainPaymentOrder(model *models.PaymentOrderModel) *domain.PaymentOrder {
	order := &domain.PaymentOrder{
		OutTradeNo:  model.OutTradeNo,
		UserID:      model.UserID,
		Amount:      model.Amount,
		Credits:     model.Credits,
		PaymentType: model.PaymentType,
		Status:      model.Status,
		NotifyData:  FromNotifyData(model.NotifyData),
		CreatedAt:   model.CreatedAt,
		PaidAt:      model.PaidAt,
	}
	if model.TradeNo != nil {
		order.TradeNo = *model.TradeNo
	}
	return order
}

func ToGORMPaymentOrder(order *domain.PaymentOrder) *models.PaymentOrderModel {
	return &models.PaymentOrderModel{
		OutTradeNo:  order.OutTradeNo,
		TradeNo:     nullable(order.TradeNo),
		UserID:      order.UserID,
		Amount:      order.Amount,
		Credits:     order.Credits,
		PaymentType: order.PaymentType,
		Status:      order.Status,
		NotifyData:  ToNotifyData(order.NotifyData),
		CreatedAt:   order.CreatedAt,
		PaidAt:      order.PaidAt,
	}
}

func ToNotifyData(params map[string]string) datatypes.JSONMap {
	if params == nil {
		return nil
	}
	data := make(datatypes.JSONMap, len(params))
	for k, v := range params {
		data[k] = v
	}
	return data
}

func FromNotifyData(data datatypes.JSONMap) map[string]string {
	if data == nil {
		return nil
	}
	params := make(map[string]string, len(data))
	for k, v := range data {
		if s, ok := v.(string); ok {
			params[k] = s
			continue
		}
		params[k] = fmt.Sprint(v)
	}
	return params
}
