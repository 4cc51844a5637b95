// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unifiedui/variables-service/internal/api/dto"
	"github.com/unifiedui/variables-service/internal/core/commonvars"
	"github.com/unifiedui/variables-service/internal/core/docdb"
	"github.com/unifiedui/variables-service/internal/core/secrets"
)

type component struct {
	name string
	ping func(ctx context.Context) error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	components []component
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(backend secrets.Backend, commonVars commonvars.Store, docDBClient docdb.Client) *HealthHandler {
	return &HealthHandler{
		components: []component{
			{name: "secrets", ping: backend.Ping},
			{name: "commonvars", ping: commonVars.Ping},
			{name: "docdb", ping: docDBClient.Ping},
		},
	}
}

// Health handles the /health endpoint.
// @Summary Health check
// @Description Returns the overall health status and component statuses
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service healthy"
// @Failure 503 {object} dto.HealthResponse "Service unhealthy"
// @Router /api/v1/variables-service/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	statuses := make(map[string]string, len(h.components))
	healthy := true

	for _, comp := range h.components {
		if err := comp.ping(c.Request.Context()); err != nil {
			statuses[comp.name] = "unhealthy"
			healthy = false
			continue
		}
		statuses[comp.name] = "healthy"
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, dto.HealthResponse{
		Status:     status,
		Components: statuses,
	})
}

// Ready handles the /ready endpoint.
// @Summary Readiness check
// @Description Returns 200 if the service is ready to accept traffic
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service ready"
// @Failure 503 {object} map[string]string "Service not ready"
// @Router /api/v1/variables-service/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	for _, comp := range h.components {
		if err := comp.ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": comp.name + " unavailable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// Live handles the /live endpoint.
// @Summary Liveness check
// @Description Returns 200 if the service is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service alive"
// @Router /api/v1/variables-service/live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
