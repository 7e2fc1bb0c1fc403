package domain

import "context"

type VendorTaskStatus string

const (
	VendorPending   VendorTaskStatus = "PENDING"
	VendorRunning   VendorTaskStatus = "RUNNING"
	VendorSucceeded VendorTaskStatus = "SUCCEEDED"
	VendorFailed    VendorTaskStatus = "FAILED"
	VendorCanceled  VendorTaskStatus = "CANCELED"
	VendorUnknown   VendorTaskStatus = "UNKNOWN"
)

type VendorTask struct {
	TaskID       string
	Status       VendorTaskStatus
	ResultURLs   []string
	ErrorMessage string
}

// ImageVendor is the asynchronous generation backend. Transport failures are
// returned as errors wrapping ErrVendorUnavailable.
type ImageVendor interface {
	CreateTask(ctx context.Context, prompt string) (string, error)
	GetTaskStatus(ctx context.Context, taskID string) (*VendorTask, error)
}
