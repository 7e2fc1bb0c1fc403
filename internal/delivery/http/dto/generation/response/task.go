package response

import "time"

type SubmitResponse struct {
	TaskID    string `json:"taskId"`
	HistoryID string `json:"historyId"`
	Status    string `json:"status"`
}

type TaskResponse struct {
	HistoryID string    `json:"historyId"`
	TaskID    string    `json:"taskId,omitempty"`
	Prompt    string    `json:"prompt"`
	Status    string    `json:"status"`
	Images    []string  `json:"images"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type HistoryResponse struct {
	History []TaskResponse `json:"history"`
}
