package dashscope

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://dashscope.aliyuncs.com"

	synthesisPath = "/api/v1/services/aigc/text2image/image-synthesis"
	tasksPath     = "/api/v1/tasks/"

	taskNotFoundMessage = "vendor task not found or expired"
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Size    string
	N       int
	Timeout time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// APIError is a non-2xx answer from DashScope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dashscope request failed with status %d: %s %s", e.StatusCode, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return domain.ErrVendorUnavailable
}

type synthesisRequest struct {
	Model      string              `json:"model"`
	Input      synthesisInput      `json:"input"`
	Parameters synthesisParameters `json:"parameters"`
}

type synthesisInput struct {
	Prompt string `json:"prompt"`
}

type synthesisParameters struct {
	Size string `json:"size,omitempty"`
	N    int    `json:"n,omitempty"`
}

type taskResponse struct {
	RequestID string     `json:"request_id"`
	Output    taskOutput `json:"output"`
	Code      string     `json:"code"`
	Message   string     `json:"message"`
}

type taskOutput struct {
	TaskID     string       `json:"task_id"`
	TaskStatus string       `json:"task_status"`
	Results    []taskResult `json:"results"`
	Code       string       `json:"code"`
	Message    string       `json:"message"`
}

type taskResult struct {
	URL     string `json:"url"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateTask submits an asynchronous text-to-image job.
func (c *Client) CreateTask(ctx context.Context, prompt string) (string, error) {
	payload := synthesisRequest{
		Model:      c.cfg.Model,
		Input:      synthesisInput{Prompt: prompt},
		Parameters: synthesisParameters{Size: c.cfg.Size, N: c.cfg.N},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+synthesisPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-DashScope-Async", "enable")

	var resp taskResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if resp.Output.TaskID == "" {
		return "", fmt.Errorf("%w: response carries no task id", domain.ErrVendorUnavailable)
	}

	c.logger.Debug("dashscope task created",
		zap.String("task_id", resp.Output.TaskID),
		zap.String("request_id", resp.RequestID),
	)
	return resp.Output.TaskID, nil
}

func (c *Client) GetTaskStatus(ctx context.Context, taskID string) (*domain.VendorTask, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+tasksPath+taskID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var resp taskResponse
	if err := c.do(req, &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound && apiErr.Code != "" {
			// the vendor answered for itself: the task is gone for good
			c.logger.Warn("dashscope task not found",
				zap.String("task_id", taskID),
				zap.String("code", apiErr.Code),
				zap.String("message", apiErr.Message),
			)
			return &domain.VendorTask{
				TaskID:       taskID,
				Status:       domain.VendorFailed,
				ErrorMessage: fmt.Sprintf("%s: %s: %s", taskNotFoundMessage, apiErr.Code, apiErr.Message),
			}, nil
		}
		return nil, err
	}

	task := &domain.VendorTask{
		TaskID:       resp.Output.TaskID,
		Status:       mapStatus(resp.Output.TaskStatus),
		ErrorMessage: resp.Output.Message,
	}
	if task.TaskID == "" {
		task.TaskID = taskID
	}
	for _, r := range resp.Output.Results {
		if r.URL != "" {
			task.ResultURLs = append(task.ResultURLs, r.URL)
		}
	}
	if task.Status == domain.VendorFailed && task.ErrorMessage == "" {
		task.ErrorMessage = resp.Output.Code
	}
	return task, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("dashscope request failed", zap.String("path", req.URL.Path), zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrVendorUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", domain.ErrVendorUnavailable, err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload taskResponse
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Code = payload.Code
			apiErr.Message = payload.Message
		}
		c.logger.Warn("dashscope api error",
			zap.Int("status", resp.StatusCode),
			zap.String("code", apiErr.Code),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", domain.ErrVendorUnavailable, err)
	}
	return nil
}

func mapStatus(status string) domain.VendorTaskStatus {
	switch domain.VendorTaskStatus(strings.ToUpper(status)) {
	case domain.VendorPending:
		return domain.VendorPending
	case domain.VendorRunning:
		return domain.VendorRunning
	case domain.VendorSucceeded:
		return domain.VendorSucceeded
	case domain.VendorFailed:
		return domain.VendorFailed
	case domain.VendorCanceled:
		return domain.VendorCanceled
	default:
		return domain.VendorUnknown
	}
}
