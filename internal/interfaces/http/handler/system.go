package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	appName     string
	version     string
	environment string
	startTime   time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(appName, version, environment string) *SystemHandler {
	return &SystemHandler{
		appName:     appName,
		version:     version,
		environment: environment,
		startTime:   time.Now(),
	}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	{
		system.GET("/ping", h.Ping)
		system.GET("/info", h.GetSystemInfo)
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	GoVersion   string `json:"go_version"`
	Uptime      string `json:"uptime"`
}

// GetSystemInfo returns basic process information including version and uptime.
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:        h.appName,
		Version:     h.version,
		Environment: h.environment,
		GoVersion:   runtime.Version(),
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
	}

	h.Success(c, "", info)
}

// Ping checks that the API is responsive without touching any vendor.
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, "pong", nil)
}
