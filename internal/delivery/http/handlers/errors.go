package handlers

import (
	"errors"
	"net/http"

	"github.com/LavaJover/shvark-credit-service/internal/delivery/http/dto/common"
	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/gin-gonic/gin"
)

// StatusFor maps a usecase error onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientCredits):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyPrompt),
		errors.Is(err, domain.ErrInvalidPaymentType),
		errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrVendorTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrVendorUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrStoreConflict):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse writes err as JSON. Internal failures are not echoed to the caller.
func ErrorResponse(c *gin.Context, err error) {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	c.JSON(status, common.ErrorResponse{Error: message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, common.ErrorResponse{Error: message})
}
