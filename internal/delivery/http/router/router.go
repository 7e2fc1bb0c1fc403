package router

import (
	"github.com/LavaJover/shvark-credit-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-credit-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handlers struct {
	Generation *handlers.GenerationHandler
	Credit     *handlers.CreditHandler
	Payment    *handlers.PaymentHandler
	Webhook    *handlers.WebhookHandler
	Health     *handlers.HealthHandler
}

func Setup(h Handlers, jwtSecret string, gatherer prometheus.Gatherer, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger.OrNop(log)))

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		// called by the gateway and by probes, no caller identity
		api.GET("/health", h.Health.Health)
		api.GET("/payment/webhook", h.Webhook.Notify)
		api.POST("/payment/webhook", h.Webhook.Notify)

		authorized := api.Group("", middleware.JWTAuth(jwtSecret))
		{
			authorized.POST("/generate-image", h.Generation.GenerateImage)
			authorized.GET("/check-task/:taskId", h.Generation.CheckTask)
			authorized.GET("/history", h.Generation.History)
			authorized.GET("/credits", h.Credit.Balance)

			payment := authorized.Group("/payment")
			payment.POST("/url", h.Payment.OpenOrder)
			payment.GET("/check/:orderNo", h.Payment.CheckOrder)
			payment.POST("/order/:orderNo", h.Payment.CancelOrder)
			payment.DELETE("/order/:orderNo", h.Payment.DeleteOrder)
			payment.GET("/history", h.Payment.ListOrders)
		}
	}

	return r
}
