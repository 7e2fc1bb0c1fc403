package mappers

import (
	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/postgres/models"
)

func ToDomainCreditBalance(model *models.CreditBalanceModel) *domain.CreditBalance {
	return &domain.CreditBalance{
		UserID:    model.UserID,
		Credits:   model.Credits,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
