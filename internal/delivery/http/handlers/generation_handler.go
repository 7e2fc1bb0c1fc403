package handlers

import (
	"net/http"
	"strconv"

	generationRequest "github.com/LavaJover/shvark-credit-service/internal/delivery/http/dto/generation/request"
	generationResponse "github.com/LavaJover/shvark-credit-service/internal/delivery/http/dto/generation/response"
	"github.com/LavaJover/shvark-credit-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/gin-gonic/gin"
)

type GenerationHandler struct {
	uc domain.GenerationUsecase
}

func NewGenerationHandler(uc domain.GenerationUsecase) *GenerationHandler {
	return &GenerationHandler{uc: uc}
}

// GenerateImage POST /api/generate-image
func (h *GenerationHandler) GenerateImage(c *gin.Context) {
	var req generationRequest.GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "prompt is required")
		return
	}

	record, err := h.uc.Submit(c.Request.Context(), middleware.UserID(c), req.Prompt)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, generationResponse.SubmitResponse{
		TaskID:    record.TaskID,
		HistoryID: record.ID,
		Status:    string(record.Status),
	})
}

// CheckTask GET /api/check-task/:taskId; wait=true blocks until the task settles.
func (h *GenerationHandler) CheckTask(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		badRequest(c, "task id is required")
		return
	}

	check := h.uc.CheckTask
	if wait, _ := strconv.ParseBool(c.Query("wait")); wait {
		check = h.uc.AwaitTask
	}

	record, err := check(c.Request.Context(), middleware.UserID(c), taskID)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(record))
}

// History GET /api/history?limit=&offset=
func (h *GenerationHandler) History(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		badRequest(c, "invalid limit")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		badRequest(c, "invalid offset")
		return
	}

	records, err := h.uc.ListHistory(c.Request.Context(), middleware.UserID(c), limit, offset)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	history := make([]generationResponse.TaskResponse, 0, len(records))
	for _, record := range records {
		history = append(history, toTaskResponse(record))
	}
	c.JSON(http.StatusOK, generationResponse.HistoryResponse{History: history})
}

func toTaskResponse(record *domain.GenerationRecord) generationResponse.TaskResponse {
	images := record.ImageURLs
	if images == nil {
		images = []string{}
	}
	return generationResponse.TaskResponse{
		HistoryID: record.ID,
		TaskID:    record.TaskID,
		Prompt:    record.Prompt,
		Status:    string(record.Status),
		Images:    images,
		Error:     record.ErrorMessage,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
