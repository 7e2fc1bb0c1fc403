package handlers

import (
	"net/http"

	creditResponse "github.com/LavaJover/shvark-credit-service/internal/delivery/http/dto/credit/response"
	"github.com/LavaJover/shvark-credit-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/gin-gonic/gin"
)

type CreditHandler struct {
	ledger domain.Ledger
}

func NewCreditHandler(ledger domain.Ledger) *CreditHandler {
	return &CreditHandler{ledger: ledger}
}

// Balance GET /api/credits
func (h *CreditHandler) Balance(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	balance, err := h.ledger.GetBalance(c.Request.Context(), userID)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, creditResponse.BalanceResponse{Credits: balance.Credits})
}
