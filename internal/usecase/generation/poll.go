package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"go.uber.org/zap"
)

const noImagesMessage = "vendor returned no images"

// CheckTask probes the vendor once and applies a terminal vendor state.
// Records that are already terminal are returned as stored.
func (uc *DefaultGenerationUsecase) CheckTask(ctx context.Context, userID, taskID string) (*domain.GenerationRecord, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	record, err := uc.Store.History().GetByTaskID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if record.Status.IsTerminal() {
		return record, nil
	}

	return uc.probe(ctx, record)
}

// AwaitTask polls until the task is terminal, the attempt budget runs out or
// ctx is done. Running out of budget leaves the record untouched.
func (uc *DefaultGenerationUsecase) AwaitTask(ctx context.Context, userID, taskID string) (*domain.GenerationRecord, error) {
	ticker := time.NewTicker(uc.PollInterval)
	defer ticker.Stop()

	var lastErr error
	for attempt := 1; attempt <= uc.MaxPollAttempts; attempt++ {
		record, err := uc.CheckTask(ctx, userID, taskID)
		switch {
		case err == nil:
			lastErr = nil
			if record.Status.IsTerminal() {
				return record, nil
			}
		case errors.Is(err, domain.ErrVendorUnavailable):
			lastErr = err
			uc.Logger.Warn("task probe failed, will retry",
				zap.String("task_id", taskID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		default:
			return nil, err
		}

		if attempt == uc.MaxPollAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("task %s not finished after %d attempts: %w", taskID, uc.MaxPollAttempts, domain.ErrVendorTimeout)
}

func (uc *DefaultGenerationUsecase) probe(ctx context.Context, record *domain.GenerationRecord) (*domain.GenerationRecord, error) {
	task, err := uc.Vendor.GetTaskStatus(ctx, record.TaskID)
	if err != nil {
		uc.recordVendorError("status")
		if !errors.Is(err, domain.ErrVendorUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrVendorUnavailable, err)
		}
		return nil, err
	}
	return uc.reconcile(ctx, record, task)
}

// reconcile maps a vendor snapshot onto the history record. Non-terminal or
// unknown vendor states change nothing.
func (uc *DefaultGenerationUsecase) reconcile(ctx context.Context, record *domain.GenerationRecord, task *domain.VendorTask) (*domain.GenerationRecord, error) {
	switch task.Status {
	case domain.VendorSucceeded:
		if len(task.ResultURLs) == 0 {
			return uc.failAndRefund(ctx, record, noImagesMessage)
		}
		return uc.complete(ctx, record, task.ResultURLs)

	case domain.VendorFailed, domain.VendorCanceled:
		message := task.ErrorMessage
		if message == "" {
			message = fmt.Sprintf("generation task %s", task.Status)
		}
		return uc.failAndRefund(ctx, record, message)

	default:
		return record, nil
	}
}

func (uc *DefaultGenerationUsecase) complete(ctx context.Context, record *domain.GenerationRecord, urls []string) (*domain.GenerationRecord, error) {
	completed := false
	err := uc.Store.InTx(ctx, func(tx domain.Store) error {
		var err error
		completed, err = tx.History().AppendResult(ctx, record.ID, urls)
		return err
	})
	if err != nil {
		return nil, err
	}

	updated, err := uc.Store.History().GetByID(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	if completed {
		uc.recordFinished(updated)
		uc.publish(updated, "completed")
		uc.Logger.Info("generation completed",
			zap.String("history_id", record.ID),
			zap.String("task_id", record.TaskID),
			zap.Int("images", len(urls)),
		)
	}
	return updated, nil
}
