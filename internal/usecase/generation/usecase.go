package generation

import (
	"time"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

const (
	DefaultPollInterval    = time.Second
	DefaultMaxPollAttempts = 60

	// Bounds the vendor create call plus the task id attach, which run
	// detached from the caller.
	DefaultSubmitTimeout = 45 * time.Second

	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100

	// Pending records without a task id older than this never reached the
	// vendor and are failed and refunded on the next history read.
	DefaultStalePendingAfter = 5 * time.Minute

	reconcileConcurrency = 4
)

type Config struct {
	PollInterval      time.Duration
	MaxPollAttempts   int
	StalePendingAfter time.Duration
	SubmitTimeout     time.Duration
}

type DefaultGenerationUsecase struct {
	Store     domain.Store
	Ledger    domain.Ledger
	Vendor    domain.ImageVendor
	Publisher domain.EventPublisher
	Metrics   *metrics.CreditMetrics
	Logger    *zap.Logger

	PollInterval      time.Duration
	MaxPollAttempts   int
	StalePendingAfter time.Duration
	SubmitTimeout     time.Duration

	now func() time.Time
}

func NewDefaultGenerationUsecase(
	store domain.Store,
	ledger domain.Ledger,
	vendor domain.ImageVendor,
	publisher domain.EventPublisher,
	creditMetrics *metrics.CreditMetrics,
	logger *zap.Logger,
	cfg Config,
) *DefaultGenerationUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.MaxPollAttempts <= 0 {
		cfg.MaxPollAttempts = DefaultMaxPollAttempts
	}
	if cfg.StalePendingAfter <= 0 {
		cfg.StalePendingAfter = DefaultStalePendingAfter
	}
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = DefaultSubmitTimeout
	}

	return &DefaultGenerationUsecase{
		Store:             store,
		Ledger:            ledger,
		Vendor:            vendor,
		Publisher:         publisher,
		Metrics:           creditMetrics,
		Logger:            logger,
		PollInterval:      cfg.PollInterval,
		MaxPollAttempts:   cfg.MaxPollAttempts,
		StalePendingAfter: cfg.StalePendingAfter,
		SubmitTimeout:     cfg.SubmitTimeout,
		now:               time.Now,
	}
}

func (uc *DefaultGenerationUsecase) publish(record *domain.GenerationRecord, stage string) {
	if uc.Publisher == nil {
		return
	}

	go func(event domain.GenerationEvent) {
		if err := uc.Publisher.PublishGeneration(event); err != nil {
			uc.Logger.Error("failed to publish generation event",
				zap.String("stage", event.Stage),
				zap.String("history_id", event.HistoryID),
				zap.Error(err),
			)
		}
	}(domain.GenerationEvent{
		HistoryID:    record.ID,
		UserID:       record.UserID,
		TaskID:       record.TaskID,
		Stage:        stage,
		Status:       string(record.Status),
		ImageCount:   len(record.ImageURLs),
		ErrorMessage: record.ErrorMessage,
		OccurredAt:   uc.now(),
	})
}
