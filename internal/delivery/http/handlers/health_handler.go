package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status   string          `json:"status"`
	Database bool            `json:"database"`
	Config   map[string]bool `json:"config"`
	Errors   []string        `json:"errors,omitempty"`
}

// HealthHandler reports store reachability and which integrations are configured.
type HealthHandler struct {
	db     Pinger
	config map[string]bool
}

func NewHealthHandler(db Pinger, config map[string]bool) *HealthHandler {
	return &HealthHandler{db: db, config: config}
}

// Health GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Database: true, Config: h.config}
	if err := h.db.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Database = false
		resp.Errors = append(resp.Errors, "database: "+err.Error())
	}
	for name, ok := range h.config {
		if !ok {
			resp.Status = "degraded"
			resp.Errors = append(resp.Errors, name+": not configured")
		}
	}

	status := http.StatusOK
	if !resp.Database {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
