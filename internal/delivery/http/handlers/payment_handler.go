package handlers

import (
	"net/http"
	"strconv"

	"github.com/LavaJover/shvark-credit-service/internal/delivery/http/dto/common"
	paymentRequest "github.com/LavaJover/shvark-credit-service/internal/delivery/http/dto/payment/request"
	paymentResponse "github.com/LavaJover/shvark-credit-service/internal/delivery/http/dto/payment/response"
	"github.com/LavaJover/shvark-credit-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	uc domain.PaymentUsecase
}

func NewPaymentHandler(uc domain.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// OpenOrder POST /api/payment/url
func (h *PaymentHandler) OpenOrder(c *gin.Context) {
	var req paymentRequest.OpenOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	out, err := h.uc.OpenOrder(c.Request.Context(), domain.OpenOrderInput{
		UserID:      middleware.UserID(c),
		Amount:      req.Amount,
		Credits:     req.Credits,
		PaymentType: domain.PaymentType(req.PaymentType),
	})
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, paymentResponse.OpenOrderResponse{
		PaymentURL: out.PaymentURL,
		OutTradeNo: out.OutTradeNo,
	})
}

// CheckOrder GET /api/payment/check/:orderNo
func (h *PaymentHandler) CheckOrder(c *gin.Context) {
	order, err := h.uc.CheckOrder(c.Request.Context(), middleware.UserID(c), c.Param("orderNo"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// CancelOrder POST /api/payment/order/:orderNo
func (h *PaymentHandler) CancelOrder(c *gin.Context) {
	if err := h.uc.CancelOrder(c.Request.Context(), middleware.UserID(c), c.Param("orderNo")); err != nil {
		ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, common.SuccessResponse{Success: true})
}

// DeleteOrder DELETE /api/payment/order/:orderNo
func (h *PaymentHandler) DeleteOrder(c *gin.Context) {
	if err := h.uc.DeleteOrder(c.Request.Context(), middleware.UserID(c), c.Param("orderNo")); err != nil {
		ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, common.SuccessResponse{Success: true})
}

// ListOrders GET /api/payment/history?limit=
func (h *PaymentHandler) ListOrders(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		badRequest(c, "invalid limit")
		return
	}

	orders, err := h.uc.ListOrders(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	resp := paymentResponse.OrdersResponse{Orders: make([]paymentResponse.OrderResponse, 0, len(orders))}
	for _, order := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(order))
	}
	c.JSON(http.StatusOK, resp)
}

func toOrderResponse(order *domain.PaymentOrder) paymentResponse.OrderResponse {
	return paymentResponse.OrderResponse{
		OutTradeNo:  order.OutTradeNo,
		TradeNo:     order.TradeNo,
		Status:      string(order.Status),
		Amount:      order.Amount.StringFixed(2),
		Credits:     order.Credits,
		PaymentType: string(order.PaymentType),
		CreatedAt:   order.CreatedAt,
		PaidAt:      order.PaidAt,
	}
}
