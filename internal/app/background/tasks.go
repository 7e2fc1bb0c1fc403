package background

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const DefaultHealthProbeInterval = 10 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthReporter interface {
	SetServing(serving bool)
}

// BackgroundTasks only observes the store. Generation records are reconciled
// by client reads, never from here.
type BackgroundTasks struct {
	Store  Pinger
	Health HealthReporter
	Logger *zap.Logger

	HealthProbeInterval time.Duration
}

func NewBackgroundTasks(store Pinger, health HealthReporter, logger *zap.Logger) *BackgroundTasks {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackgroundTasks{
		Store:               store,
		Health:              health,
		Logger:              logger,
		HealthProbeInterval: DefaultHealthProbeInterval,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startHealthProbe(ctx)
}

func (bt *BackgroundTasks) startHealthProbe(ctx context.Context) {
	ticker := time.NewTicker(bt.HealthProbeInterval)
	defer ticker.Stop()

	bt.probeStore(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.probeStore(ctx)
		}
	}
}

func (bt *BackgroundTasks) probeStore(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, bt.HealthProbeInterval)
	defer cancel()

	err := bt.Store.Ping(probeCtx)
	if err != nil {
		bt.Logger.Warn("store health probe failed", zap.Error(err))
	}
	bt.Health.SetServing(err == nil)
}
