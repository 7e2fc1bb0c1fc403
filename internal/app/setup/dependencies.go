package setup

import (
	"fmt"

	"github.com/LavaJover/shvark-credit-service/internal/config"
	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/postgres/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config    *config.CreditConfig
	DB        *gorm.DB
	Logger    *zap.Logger
	Registry  *prometheus.Registry
	Metrics   *metrics.CreditMetrics
	Store     *repository.GormStore
	Publisher domain.EventPublisher

	closers []func() error
}

// InitializeDependencies wires infrastructure on top of an open database.
func InitializeDependencies(cfg *config.CreditConfig, db *gorm.DB, logger *zap.Logger) (*Dependencies, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := &Dependencies{
		Config:   cfg,
		DB:       db,
		Logger:   logger,
		Registry: registry,
		Metrics:  metrics.NewCreditMetrics(registry),
		Store:    repository.NewGormStore(db, cfg.Credits.InitialGrant, cfg.Credits.StoreRetries, logger),
	}

	publisher, err := initPublisher(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("event publisher: %w", err)
	}
	deps.Publisher = publisher
	if kp, ok := publisher.(*kafka.DefaultKafkaPublisher); ok {
		deps.closers = append(deps.closers, kp.Close)
	}

	return deps, nil
}

func initPublisher(cfg *config.CreditConfig, logger *zap.Logger) (domain.EventPublisher, error) {
	if !cfg.KafkaService.Enabled {
		logger.Info("kafka disabled, domain events are dropped")
		return kafka.NoopPublisher{}, nil
	}
	if cfg.KafkaService.PaymentTopic == "" || cfg.KafkaService.GenerationTopic == "" {
		return nil, fmt.Errorf("kafka topics must be set when kafka is enabled")
	}

	return kafka.NewDefaultKafkaPublisher(
		KafkaBrokers(cfg),
		kafka.Topics{
			Payment:    cfg.KafkaService.PaymentTopic,
			Generation: cfg.KafkaService.GenerationTopic,
		},
	), nil
}

func KafkaBrokers(cfg *config.CreditConfig) []string {
	return []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
}

func (d *Dependencies) Close() error {
	var firstErr error
	for _, closeFn := range d.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
