package generation

import (
	"context"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const neverSubmittedMessage = "task was never accepted by the vendor"

// ListHistory returns the newest records first. Records still generating are
// probed once so abandoned polls are reconciled on the next read.
func (uc *DefaultGenerationUsecase) ListHistory(ctx context.Context, userID string, limit, offset int) ([]*domain.GenerationRecord, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	records, err := uc.Store.History().ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reconcileConcurrency)
	for i, record := range records {
		i, record := i, record
		switch {
		case record.Status == domain.GenerationGenerating && record.TaskID != "":
			g.Go(func() error {
				updated, err := uc.probe(gctx, record)
				if err != nil {
					uc.Logger.Debug("history reconcile skipped",
						zap.String("history_id", record.ID),
						zap.String("task_id", record.TaskID),
						zap.Error(err),
					)
					return nil
				}
				records[i] = updated
				return nil
			})

		case record.Status == domain.GenerationPending && record.TaskID == "" &&
			uc.now().Sub(record.CreatedAt) > uc.StalePendingAfter:
			g.Go(func() error {
				updated, err := uc.failAndRefund(gctx, record, neverSubmittedMessage)
				if err != nil {
					return nil
				}
				records[i] = updated
				return nil
			})
		}
	}
	_ = g.Wait()

	return records, nil
}
