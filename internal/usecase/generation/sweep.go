package generation

import (
	"context"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"go.uber.org/zap"
)

const sweepBatchSize = 100

// SweepStalePending fails and refunds pending records that never reached the
// vendor, across all users. It returns how many of them ended up failed.
func (uc *DefaultGenerationUsecase) SweepStalePending(ctx context.Context) (int, error) {
	stale, err := uc.Store.History().ListStalePending(ctx, uc.now().Add(-uc.StalePendingAfter), sweepBatchSize)
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, record := range stale {
		updated, err := uc.failAndRefund(ctx, record, neverSubmittedMessage)
		if err != nil {
			return swept, err
		}
		if updated.Status == domain.GenerationFailed {
			swept++
		}
	}

	if swept > 0 {
		uc.Logger.Info("stale pending generations swept", zap.Int("count", swept))
	}
	return swept, nil
}
