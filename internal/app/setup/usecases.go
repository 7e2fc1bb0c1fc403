package setup

import (
	"time"

	"github.com/LavaJover/shvark-credit-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-credit-service/internal/delivery/http/router"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/dashscope"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/zpay"
	"github.com/LavaJover/shvark-credit-service/internal/usecase"
	"github.com/LavaJover/shvark-credit-service/internal/usecase/generation"
	"github.com/LavaJover/shvark-credit-service/internal/usecase/payment"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type UseCases struct {
	Ledger     *usecase.DefaultCreditUsecase
	Generation *generation.DefaultGenerationUsecase
	Payment    *payment.DefaultPaymentUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	cfg := deps.Config

	ledger := usecase.NewDefaultCreditUsecase(deps.Store, deps.Metrics, deps.Logger)

	vendor := dashscope.NewClient(dashscope.Config{
		APIKey:  cfg.DashScope.APIKey,
		BaseURL: cfg.DashScope.BaseURL,
		Model:   cfg.DashScope.Model,
		Size:    cfg.DashScope.Size,
		N:       cfg.DashScope.N,
		Timeout: cfg.DashScope.Timeout,
	}, deps.Logger)

	generationUsecase := generation.NewDefaultGenerationUsecase(
		deps.Store,
		ledger,
		vendor,
		deps.Publisher,
		deps.Metrics,
		deps.Logger,
		generation.Config{
			PollInterval:    cfg.DashScope.PollInterval,
			MaxPollAttempts: cfg.DashScope.MaxPollAttempts,
			SubmitTimeout:   cfg.DashScope.Timeout + 15*time.Second,
		},
	)

	gateway := zpay.NewGateway(zpay.Config{
		PID:        cfg.ZPay.PID,
		Key:        cfg.ZPay.Key,
		SubmitURL:  cfg.ZPay.SubmitURL,
		AppBaseURL: cfg.ZPay.AppBaseURL,
	})

	paymentUsecase := payment.NewDefaultPaymentUsecase(
		deps.Store,
		ledger,
		gateway,
		deps.Publisher,
		deps.Metrics,
		deps.Logger,
		decimal.NewFromFloat(cfg.Credits.AmountTolerance),
	)

	return &UseCases{
		Ledger:     ledger,
		Generation: generationUsecase,
		Payment:    paymentUsecase,
	}
}

// HTTPHandler builds the public HTTP surface over the use cases.
func HTTPHandler(deps *Dependencies, uc *UseCases) *gin.Engine {
	cfg := deps.Config
	return router.Setup(router.Handlers{
		Generation: handlers.NewGenerationHandler(uc.Generation),
		Credit:     handlers.NewCreditHandler(uc.Ledger),
		Payment:    handlers.NewPaymentHandler(uc.Payment),
		Webhook:    handlers.NewWebhookHandler(uc.Payment, deps.Logger),
		Health: handlers.NewHealthHandler(deps.Store, map[string]bool{
			"dashscope_api_key": cfg.DashScope.APIKey != "",
			"zpay_pid":          cfg.ZPay.PID != "",
			"zpay_key":          cfg.ZPay.Key != "",
			"jwt_secret":        cfg.Auth.JWTSecret != "",
		}),
	}, cfg.Auth.JWTSecret, deps.Registry, deps.Logger)
}
