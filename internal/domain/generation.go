package domain

import (
	"context"
	"time"
)

type GenerationStatus string

const (
	GenerationPending    GenerationStatus = "pending"
	GenerationGenerating GenerationStatus = "generating"
	GenerationCompleted  GenerationStatus = "completed"
	GenerationFailed     GenerationStatus = "failed"
)

func (s GenerationStatus) IsTerminal() bool {
	return s == GenerationCompleted || s == GenerationFailed
}

// NonTerminalGenerationStatuses are the only states a record may leave.
var NonTerminalGenerationStatuses = []GenerationStatus{GenerationPending, GenerationGenerating}

type GenerationRecord struct {
	ID           string
	UserID       string
	Prompt       string
	TaskID       string
	Status       GenerationStatus
	ImageURLs    []string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type HistoryUpdate struct {
	Status       GenerationStatus
	TaskID       string
	ErrorMessage string
}

// HistoryRepository guards every mutation with the record's current status.
// The returned bool reports whether this call performed the transition.
type HistoryRepository interface {
	Create(ctx context.Context, record *GenerationRecord) error
	GetByID(ctx context.Context, id string) (*GenerationRecord, error)
	GetByTaskID(ctx context.Context, userID, taskID string) (*GenerationRecord, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*GenerationRecord, error)
	ListStalePending(ctx context.Context, before time.Time, limit int) ([]*GenerationRecord, error)
	UpdateStatus(ctx context.Context, id string, from []GenerationStatus, update HistoryUpdate) (bool, error)
	AppendResult(ctx context.Context, id string, imageURLs []string) (bool, error)
}

type GenerationUsecase interface {
	Submit(ctx context.Context, userID, prompt string) (*GenerationRecord, error)
	CheckTask(ctx context.Context, userID, taskID string) (*GenerationRecord, error)
	AwaitTask(ctx context.Context, userID, taskID string) (*GenerationRecord, error)
	ListHistory(ctx context.Context, userID string, limit, offset int) ([]*GenerationRecord, error)
	SweepStalePending(ctx context.Context) (int, error)
}
