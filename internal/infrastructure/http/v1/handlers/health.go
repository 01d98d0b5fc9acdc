// Package handlers provides HTTP request handlers.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Version is reported by GET /version.
const Version = "v0.0.2"

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck names a Pinger in the readiness report.
type HealthCheck struct {
	Name   string
	Pinger Pinger
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	checks  []HealthCheck
	timeout time.Duration
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// Health answers the plain uptime probe.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Version reports the API version.
// GET /version
func (h *HealthHandler) Version(c *gin.Context) {
	c.String(http.StatusOK, Version)
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
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.checks))
	for _, chk := range h.checks {
		if err := chk.Pinger.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks[chk.Name] = "unhealthy: " + err.Error()
			continue
		}
		checks[chk.Name] = "healthy"
	}

	body := gin.H{"status": "ok", "checks": checks}
	if status != http.StatusOK {
		body["status"] = "error"
	}
	c.JSON(status, body)
}
