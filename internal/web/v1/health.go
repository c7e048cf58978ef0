package v1

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	database "github.com/duynhne/user-profile-service/internal/core"
	"github.com/duynhne/user-profile-service/middleware"
)

// DatabaseChecker reports database connectivity and pool counters.
type DatabaseChecker interface {
	CheckConnection(ctx context.Context) database.ConnectionCheck
	Status() database.PoolStatus
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Database  DatabaseHealth `json:"database"`
}

// DatabaseHealth is the database section of HealthResponse.
type DatabaseHealth struct {
	database.ConnectionCheck
	ConnectionPool database.PoolStatus `json:"connectionPool"`
}

// HealthHandler serves the infrastructure endpoints.
type HealthHandler struct {
	db           DatabaseChecker
	version      string
	shuttingDown *atomic.Bool
}

// NewHealthHandler creates a health handler. shuttingDown may be nil.
func NewHealthHandler(db DatabaseChecker, version string, shuttingDown *atomic.Bool) *HealthHandler {
	if shuttingDown == nil {
		shuttingDown = new(atomic.Bool)
	}
	return &HealthHandler{db: db, version: version, shuttingDown: shuttingDown}
}

// Health handles GET /health. It always answers 200; the status field
// says whether the database round-trip succeeded.
func (h *HealthHandler) Health(c *gin.Context) {
	check := h.db.CheckConnection(c.Request.Context())
	status := "healthy"
	if !check.Connected {
		status = "unhealthy"
		middleware.GetLoggerFromGinContext(c).Error("Health check failed", zap.String("error", check.Error))
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Database: DatabaseHealth{
			ConnectionCheck: check,
			ConnectionPool:  h.db.Status(),
		},
	})
}

// Ready handles GET /ready. Returns 503 once shutdown has started,
// to drain traffic before HTTP shutdown.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.shuttingDown.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Root handles GET / with a short description of the API.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "User Profile Service API",
		"version": h.version,
		"endpoints": gin.H{
			"health": "GET /health",
			"profiles": gin.H{
				"getAll":  "GET /api/v1/profiles",
				"getById": "GET /api/v1/profiles/:id",
				"create":  "POST /api/v1/profiles",
				"update":  "PUT /api/v1/profiles/:id",
			},
		},
	})
}
