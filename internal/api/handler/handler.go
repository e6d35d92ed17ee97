package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hirelink/hirelink-be/internal/api/dto"
	"github.com/hirelink/hirelink-be/internal/hiring/domain"
	"github.com/hirelink/hirelink-be/internal/hiring/engine"
	"github.com/hirelink/hirelink-be/shared/postgresql"
	"github.com/hirelink/hirelink-be/shared/rabbitmq"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger       *slog.Logger
	Engine       *engine.Engine
	DBClient     *postgresql.Client
	RabbitClient *rabbitmq.Client
}

// JobHandler handles hiring-related HTTP requests
type JobHandler struct {
	logger *slog.Logger
	engine *engine.Engine
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger: deps.Logger,
		engine: deps.Engine,
	}
}

// HealthHandler reports service and dependency health
type HealthHandler struct {
	logger       *slog.Logger
	dbClient     *postgresql.Client
	rabbitClient *rabbitmq.Client
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(deps *Dependencies) *HealthHandler {
	return &HealthHandler{
		logger:       deps.Logger,
		dbClient:     deps.DBClient,
		rabbitClient: deps.RabbitClient,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "healthy"
	if err := h.dbClient.HealthCheck(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		dbStatus = "unhealthy"
	}

	rabbitStatus := "healthy"
	if h.rabbitClient == nil || !h.rabbitClient.IsConnected() {
		status = http.StatusServiceUnavailable
		rabbitStatus = "unhealthy"
	}

	c.JSON(status, gin.H{
		"service":  "hirelink-api-service",
		"database": dbStatus,
		"rabbitmq": rabbitStatus,
	})
}

// statusForKind maps a domain error kind to an HTTP status.
func statusForKind(kind domain.Kind) int {
	switch kind {
	case domain.KindInvalid:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict, domain.KindMismatch:
		return http.StatusConflict
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the uniform error body for err.
func respondError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	c.JSON(statusForKind(kind), dto.ErrorResponse{
		Error:  err.Error(),
		Kind:   string(kind),
		Detail: domain.DetailOf(err),
	})
}
