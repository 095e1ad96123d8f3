package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mehmetymw/notification-relay/internal/port"
)

type HealthHandler struct {
	service string
	checker port.ConnectivityChecker
}

// NewHealthHandler reports service as the service name. checker may be nil,
// in which case readiness never dials out.
func NewHealthHandler(service string, checker port.ConnectivityChecker) *HealthHandler {
	return &HealthHandler{service: service, checker: checker}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   h.service,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := make(map[string]string)

	if h.checker != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := h.checker.Verify(ctx); err != nil {
			checks["smtp"] = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "checks": checks, "error": err.Error()})
			return
		}
		checks["smtp"] = "healthy"
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": checks})
}
