package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker is any dependency that can report liveness
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler reports service and dependency health
type HealthHandler struct {
	version string
	checks  map[string]HealthChecker
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(version string, checks map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{
		version: version,
		checks:  checks,
	}
}

// Banner handles GET /: a plain-text liveness banner for load balancers
// and manual checks
func (h *HealthHandler) Banner(c *gin.Context) {
	c.String(http.StatusOK, "enrollment api is running")
}

// Live handles GET /health: process is up
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}

// Ready handles GET /health/ready: dependencies are reachable
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := gin.H{}
	for name, check := range h.checks {
		if err := check.HealthCheck(ctx); err != nil {
			deps[name] = "unhealthy"
			status = http.StatusServiceUnavailable
		} else {
			deps[name] = "healthy"
		}
	}

	body := gin.H{
		"status":       "ok",
		"dependencies": deps,
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	c.JSON(status, body)
}
