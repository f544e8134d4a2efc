package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/laguna/integration/internal/application/status"
)

// healthChecker is the slice of the status checker the handler needs.
type healthChecker interface {
	Check(ctx context.Context) *status.Report
	CheckDetailed(ctx context.Context) *status.Report
	CheckAndAlert(ctx context.Context) *status.Report
}

// StatusHandler reports aggregate vendor connectivity
type StatusHandler struct {
	BaseHandler
	checker healthChecker
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(checker healthChecker) *StatusHandler {
	return &StatusHandler{checker: checker}
}

// RegisterRoutes registers status routes
func (h *StatusHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/status", h.Status)
	rg.GET("/health", h.Health)
}

// Status probes every vendor connection. Pass detailed=true for process
// runtime facts alongside the per-service results, or alert=true to email
// a connection alert for each unhealthy service. External monitors poll
// with alert=true in place of a scheduler.
func (h *StatusHandler) Status(c *gin.Context) {
	var report *status.Report
	switch {
	case c.Query("alert") == "true":
		report = h.checker.CheckAndAlert(c.Request.Context())
	case c.Query("detailed") == "true":
		report = h.checker.CheckDetailed(c.Request.Context())
	default:
		report = h.checker.Check(c.Request.Context())
	}

	h.Success(c, "", report)
}

// Health is the liveness probe: no vendor calls, always 200.
func (h *StatusHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
