package health

import (
	"context"
	"net/http"
	"time"

	"sales-warehouse/backend/internal/db"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports service liveness including warehouse connectivity.
type HealthChecker struct {
	database *db.Database
	timeout  time.Duration
}

func NewHealthChecker(database *db.Database, timeout time.Duration) *HealthChecker {
	return &HealthChecker{database: database, timeout: timeout}
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Handler serves GET /health
func (h *HealthChecker) Handler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.database.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:   "degraded",
			Database: "unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
}
