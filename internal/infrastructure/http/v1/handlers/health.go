package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lendhub/internal/domain/health"
)

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	service *health.Service
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(service *health.Service) *HealthHandler {
	return &HealthHandler{service: service}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	status := h.service.Check(c.Request.Context())

	code := http.StatusOK
	state := "ok"
	if !status.OK() {
		code = http.StatusServiceUnavailable
		state = "error"
	}

	c.JSON(code, gin.H{
		"status": state,
		"checks": status,
	})
}
