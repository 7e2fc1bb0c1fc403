package handlers

import (
	"errors"
	"net/http"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gateway acknowledgement bodies. Anything but "success" makes the gateway
// redeliver.
const (
	webhookSuccess       = "success"
	webhookSignError     = "sign error"
	webhookParamError    = "param error"
	webhookOrderNotFound = "order not found"
	webhookAmountError   = "amount error"
	webhookProcessError  = "process error"
)

type WebhookHandler struct {
	uc     domain.PaymentUsecase
	logger *zap.Logger
}

func NewWebhookHandler(uc domain.PaymentUsecase, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{uc: uc, logger: logger}
}

// Notify GET|POST /api/payment/webhook
func (h *WebhookHandler) Notify(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, webhookParamError)
		return
	}

	params := make(map[string]string, len(c.Request.Form))
	for key, values := range c.Request.Form {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	result, err := h.uc.Settle(c.Request.Context(), params)
	if err != nil {
		status, body := webhookReply(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("payment notification processing failed",
				zap.String("out_trade_no", params["out_trade_no"]),
				zap.Error(err),
			)
		}
		c.String(status, body)
		return
	}

	h.logger.Debug("payment notification acknowledged",
		zap.String("out_trade_no", params["out_trade_no"]),
		zap.String("result", string(result)),
	)
	c.String(http.StatusOK, webhookSuccess)
}

func webhookReply(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusBadRequest, webhookSignError
	case errors.Is(err, domain.ErrMalformedNotification):
		return http.StatusBadRequest, webhookParamError
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, webhookOrderNotFound
	case errors.Is(err, domain.ErrAmountMismatch):
		return http.StatusBadRequest, webhookAmountError
	default:
		return http.StatusInternalServerError, webhookProcessError
	}
}
