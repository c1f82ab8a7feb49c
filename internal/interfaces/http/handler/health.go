package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ircomercio/ordens/internal/interfaces/http/dto"
)

// Pinger reports whether the backing database is reachable
type Pinger interface {
	Ping() error
}

// HealthHandler serves the public liveness endpoint
type HealthHandler struct {
	db        Pinger
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, startTime: time.Now()}
}

// HealthResponse reports service and database status
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

// Register mounts the health route on the engine root, outside the
// authenticated API group
func (h *HealthHandler) Register(engine *gin.Engine) {
	engine.GET("/health", h.Health)
	engine.GET("/", h.Health)
}

// Health reports liveness. A failing database ping degrades the
// response but still answers 200 so load balancers keep the process.
func (h *HealthHandler) Health(c *gin.Context) {
	dbStatus := "up"
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			dbStatus = "down"
		}
	}

	status := "ok"
	if dbStatus == "down" {
		status = "degraded"
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(HealthResponse{
		Status:    status,
		Database:  dbStatus,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().Format(time.RFC3339),
	}))
}
