package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laguna/integration/internal/application/status"
	"github.com/laguna/integration/internal/domain/integration"
)

type fakeChecker struct {
	report   *status.Report
	detailed bool
	alerted  bool
}

func (f *fakeChecker) Check(context.Context) *status.Report {
	return f.report
}

func (f *fakeChecker) CheckDetailed(context.Context) *status.Report {
	f.detailed = true
	report := *f.report
	report.Runtime = &status.RuntimeInfo{GoVersion: "go1.25.5"}
	return &report
}

func (f *fakeChecker) CheckAndAlert(context.Context) *status.Report {
	f.alerted = true
	return f.report
}

func statusEngine(checker healthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewStatusHandler(checker)
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func healthyReport() *status.Report {
	return &status.Report{
		Status:    status.StatusHealthy,
		Timestamp: time.Now().UTC(),
		Services: []integration.ConnectionStatus{
			{Service: "3DCart", Healthy: true, StatusCode: 200},
			{Service: "NetSuite", Healthy: true, StatusCode: 200},
			{Service: "SendGrid", Healthy: true, StatusCode: 200},
		},
	}
}

func TestStatus(t *testing.T) {
	checker := &fakeChecker{report: healthyReport()}
	engine := statusEngine(checker)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, checker.detailed)

	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "healthy", data["status"])
	services := data["services"].([]any)
	require.Len(t, services, 3)
}

func TestStatus_Detailed(t *testing.T) {
	checker := &fakeChecker{report: healthyReport()}
	engine := statusEngine(checker)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status?detailed=true", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, checker.detailed)

	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]any)
	runtime := data["runtime"].(map[string]any)
	assert.Equal(t, "go1.25.5", runtime["go_version"])
}

func TestStatus_Alert(t *testing.T) {
	checker := &fakeChecker{report: healthyReport()}
	engine := statusEngine(checker)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status?alert=true", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, checker.alerted)
	assert.False(t, checker.detailed)
}

func TestStatus_Degraded(t *testing.T) {
	report := healthyReport()
	report.Status = status.StatusDegraded
	report.Services[1] = integration.ConnectionStatus{
		Service: "NetSuite",
		Healthy: false,
		Error:   "connection refused",
	}
	engine := statusEngine(&fakeChecker{report: report})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "degraded", data["status"])
}

func TestHealth(t *testing.T) {
	engine := statusEngine(&fakeChecker{report: healthyReport()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}
