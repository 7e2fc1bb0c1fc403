package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Submit reserves one credit, records the task as pending and hands the
// prompt to the vendor. Any vendor failure fails the record and refunds the
// credit before the error is returned.
func (uc *DefaultGenerationUsecase) Submit(ctx context.Context, userID, prompt string) (*domain.GenerationRecord, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, domain.ErrEmptyPrompt
	}

	record := &domain.GenerationRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Prompt:    prompt,
		Status:    domain.GenerationPending,
		ImageURLs: []string{},
	}

	// debit and the pending record commit together or not at all
	err := uc.Store.InTx(ctx, func(tx domain.Store) error {
		if err := uc.Ledger.Debit(ctx, tx, userID, 1, domain.ReasonGeneration); err != nil {
			return err
		}
		return tx.History().Create(ctx, record)
	})
	if err != nil {
		uc.recordSubmitted(submitOutcome(err))
		return nil, err
	}

	// Once the vendor accepts, the task id must be stored even if the caller
	// goes away, or the task is later mistaken for one that never started.
	vctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.SubmitTimeout)
	defer cancel()

	taskID, err := uc.Vendor.CreateTask(vctx, prompt)
	if err != nil {
		if !errors.Is(err, domain.ErrVendorUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrVendorUnavailable, err)
		}
		uc.recordVendorError("create")
		uc.recordSubmitted("vendor_error")
		uc.Logger.Warn("vendor rejected generation task",
			zap.String("user_id", userID),
			zap.String("history_id", record.ID),
			zap.Error(err),
		)

		// the refund must survive both the caller and the submit deadline
		failed, cerr := uc.failAndRefund(context.WithoutCancel(ctx), record, err.Error())
		if cerr != nil {
			return nil, errors.Join(err, cerr)
		}
		return failed, err
	}

	err = uc.Store.InTx(vctx, func(tx domain.Store) error {
		moved, err := tx.History().UpdateStatus(vctx, record.ID,
			[]domain.GenerationStatus{domain.GenerationPending},
			domain.HistoryUpdate{Status: domain.GenerationGenerating, TaskID: taskID},
		)
		if err != nil {
			return err
		}
		if !moved {
			return fmt.Errorf("history %s left pending before task assignment: %w", record.ID, domain.ErrInvalidTransition)
		}
		return nil
	})
	if err != nil {
		uc.Logger.Error("failed to attach task id to history",
			zap.String("history_id", record.ID),
			zap.String("user_id", userID),
			zap.String("task_id", taskID),
			zap.Error(err),
		)
		return nil, err
	}

	record.TaskID = taskID
	record.Status = domain.GenerationGenerating
	uc.recordSubmitted("ok")
	uc.publish(record, "submitted")

	uc.Logger.Info("generation task submitted",
		zap.String("user_id", userID),
		zap.String("history_id", record.ID),
		zap.String("task_id", taskID),
	)
	return record, nil
}

// failAndRefund moves a non-terminal record to failed and credits the user
// back in the same transaction. Only the caller that wins the status guard
// refunds, so repeated or concurrent calls compensate at most once.
func (uc *DefaultGenerationUsecase) failAndRefund(ctx context.Context, record *domain.GenerationRecord, message string) (*domain.GenerationRecord, error) {
	refunded := false
	err := uc.Store.InTx(ctx, func(tx domain.Store) error {
		refunded = false
		moved, err := tx.History().UpdateStatus(ctx, record.ID,
			domain.NonTerminalGenerationStatuses,
			domain.HistoryUpdate{Status: domain.GenerationFailed, ErrorMessage: message},
		)
		if err != nil || !moved {
			return err
		}
		if err := uc.Ledger.Credit(ctx, tx, record.UserID, 1, domain.ReasonCompensation); err != nil {
			return err
		}
		refunded = true
		return nil
	})
	if err != nil {
		uc.Logger.Error("generation compensation failed",
			zap.String("history_id", record.ID),
			zap.String("user_id", record.UserID),
			zap.Error(err),
		)
		return nil, err
	}

	updated, err := uc.Store.History().GetByID(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	if refunded {
		uc.recordFinished(updated)
		uc.recordRefund()
		uc.publish(updated, "failed")
		uc.Logger.Info("generation failed, credit refunded",
			zap.String("history_id", record.ID),
			zap.String("user_id", record.UserID),
			zap.String("error_message", message),
		)
	}
	return updated, nil
}

func submitOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientCredits):
		return "insufficient_credits"
	case errors.Is(err, domain.ErrStoreConflict):
		return "store_conflict"
	default:
		return "error"
	}
}
