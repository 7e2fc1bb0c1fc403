package dashscope

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL, Model: "wanx2.1-t2i-plus", Size: "1024*1024", N: 4}, nil)
}

func TestClient_CreateTask(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, synthesisPath, r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "enable", r.Header.Get("X-DashScope-Async"))

		var body synthesisRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "cat", body.Input.Prompt)
		assert.Equal(t, "wanx2.1-t2i-plus", body.Model)
		assert.Equal(t, 4, body.Parameters.N)

		w.Write([]byte(`{"request_id":"r1","output":{"task_id":"T","task_status":"PENDING"}}`))
	})

	taskID, err := client.CreateTask(context.Background(), "cat")
	require.NoError(t, err)
	assert.Equal(t, "T", taskID)
}

func TestClient_CreateTask_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"DataInspectionFailed","message":"bad prompt"}`))
	})

	_, err := client.CreateTask(context.Background(), "cat")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrVendorUnavailable)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "DataInspectionFailed", apiErr.Code)
}

func TestClient_CreateTask_NoTaskID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output":{}}`))
	})

	_, err := client.CreateTask(context.Background(), "cat")
	assert.ErrorIs(t, err, domain.ErrVendorUnavailable)
}

func TestClient_GetTaskStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, tasksPath+"T", r.URL.Path)
		w.Write([]byte(`{"output":{"task_id":"T","task_status":"SUCCEEDED","results":[{"url":"u1"},{"url":"u2"},{"code":"DataInspectionFailed"}]}}`))
	})

	task, err := client.GetTaskStatus(context.Background(), "T")
	require.NoError(t, err)
	assert.Equal(t, domain.VendorSucceeded, task.Status)
	assert.Equal(t, []string{"u1", "u2"}, task.ResultURLs)
}

func TestClient_GetTaskStatus_Failed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output":{"task_id":"T","task_status":"FAILED","code":"InternalError"}}`))
	})

	task, err := client.GetTaskStatus(context.Background(), "T")
	require.NoError(t, err)
	assert.Equal(t, domain.VendorFailed, task.Status)
	assert.Equal(t, "InternalError", task.ErrorMessage)
}

func TestClient_GetTaskStatus_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(Config{BaseURL: srv.URL}, nil)

	_, err := client.GetTaskStatus(context.Background(), "T")
	assert.ErrorIs(t, err, domain.ErrVendorUnavailable)
}

func TestClient_GetTaskStatus_TaskGone(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"request_id":"r2","code":"NotFound","message":"task T does not exist"}`))
	})

	task, err := client.GetTaskStatus(context.Background(), "T")
	require.NoError(t, err)
	assert.Equal(t, "T", task.TaskID)
	assert.Equal(t, domain.VendorFailed, task.Status)
	assert.Contains(t, task.ErrorMessage, taskNotFoundMessage)
	assert.Contains(t, task.ErrorMessage, "NotFound")
}

func TestClient_GetTaskStatus_BareNotFoundIsUnavailable(t *testing.T) {
	client := newTestClient(t, http.NotFound)

	_, err := client.GetTaskStatus(context.Background(), "T")
	assert.ErrorIs(t, err, domain.ErrVendorUnavailable)
}

func TestClient_GetTaskStatus_OtherClientErrorIsUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"InvalidApiKey","message":"bad key"}`))
	})

	_, err := client.GetTaskStatus(context.Background(), "T")
	assert.ErrorIs(t, err, domain.ErrVendorUnavailable)
}

func TestMapStatus(t *testing.T) {
	assert.Equal(t, domain.VendorRunning, mapStatus("running"))
	assert.Equal(t, domain.VendorUnknown, mapStatus("UNKNOWN"))
	assert.Equal(t, domain.VendorUnknown, mapStatus("SUSPENDED"))
	assert.Equal(t, domain.VendorCanceled, mapStatus("CANCELED"))
}
