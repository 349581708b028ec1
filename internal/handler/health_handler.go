package handler

import (
	"net/http"
	"time"

	"rede-backend/pkg/logger"
	"rede-backend/pkg/redis"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	redis  *redis.Client
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(redisClient *redis.Client, log *logger.Logger) *HealthHandler {
	return &HealthHandler{redis: redisClient, logger: log}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   "rede-backend",
		Checks:    map[string]string{},
	}
	status := http.StatusOK

	if err := h.redis.Health(r.Context()); err != nil {
		h.logger.WithError(err).Error("Redis health check failed")
		response.Status = "degraded"
		response.Checks["redis"] = "unhealthy"
		status = http.StatusServiceUnavailable
	} else {
		response.Checks["redis"] = "healthy"
	}

	writeJSON(w, h.logger, status, response)
}
