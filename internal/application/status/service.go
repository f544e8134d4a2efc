package status

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/laguna/integration/internal/domain/integration"
)

// Overall health values reported by Check
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// Report is the aggregate connectivity picture across all vendors
type Report struct {
	Status    string                         `json:"status"`
	Timestamp time.Time                      `json:"timestamp"`
	Services  []integration.ConnectionStatus `json:"services"`
	Runtime   *RuntimeInfo                   `json:"runtime,omitempty"`
}

// RuntimeInfo is the process-level detail added in detailed mode
type RuntimeInfo struct {
	AppName           string        `json:"app_name"`
	Environment       string        `json:"environment"`
	GoVersion         string        `json:"go_version"`
	Uptime            time.Duration `json:"uptime"`
	Goroutines        int           `json:"goroutines"`
	MemoryAllocMB     uint64        `json:"memory_alloc_mb"`
	UploadDirWritable bool          `json:"upload_dir_writable"`
}

// Config identifies the deployment for detailed reports
type Config struct {
	AppName     string
	Environment string
	UploadPath  string
}

// Checker probes every vendor connection in parallel and reports the
// aggregate health of the integration.
type Checker struct {
	storefront integration.StorefrontGateway
	erp        integration.ERPGateway
	notifier   integration.Notifier
	config     Config
	logger     *zap.Logger
	startedAt  time.Time
}

// NewChecker creates a new Checker
func NewChecker(
	storefront integration.StorefrontGateway,
	erp integration.ERPGateway,
	notifier integration.Notifier,
	config Config,
	logger *zap.Logger,
) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{
		storefront: storefront,
		erp:        erp,
		notifier:   notifier,
		config:     config,
		logger:     logger.Named("status"),
		startedAt:  time.Now(),
	}
}

// Check probes all three vendors concurrently. The report is degraded
// when any probe fails; service order is stable regardless of which
// probe finishes first.
func (c *Checker) Check(ctx context.Context) *Report {
	probes := []func(context.Context) integration.ConnectionStatus{
		c.storefront.TestConnection,
		c.erp.TestConnection,
		c.notifier.TestConnection,
	}

	services := make([]integration.ConnectionStatus, len(probes))
	var wg sync.WaitGroup
	for i, probe := range probes {
		wg.Add(1)
		go func(i int, probe func(context.Context) integration.ConnectionStatus) {
			defer wg.Done()
			services[i] = probe(ctx)
		}(i, probe)
	}
	wg.Wait()

	report := &Report{
		Status:    StatusHealthy,
		Timestamp: time.Now().UTC(),
		Services:  services,
	}
	for _, svc := range services {
		if !svc.Healthy {
			report.Status = StatusDegraded
			c.logger.Warn("Service connection unhealthy",
				zap.String("service", svc.Service),
				zap.Int("status_code", svc.StatusCode),
				zap.String("error", svc.Error))
		}
	}

	return report
}

// CheckDetailed runs Check and attaches process runtime facts.
func (c *Checker) CheckDetailed(ctx context.Context) *Report {
	report := c.Check(ctx)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	report.Runtime = &RuntimeInfo{
		AppName:           c.config.AppName,
		Environment:       c.config.Environment,
		GoVersion:         runtime.Version(),
		Uptime:            time.Since(c.startedAt).Round(time.Second),
		Goroutines:        runtime.NumGoroutine(),
		MemoryAllocMB:     mem.Alloc / 1024 / 1024,
		UploadDirWritable: dirWritable(c.config.UploadPath),
	}
	return report
}

// CheckAndAlert runs Check and emails a connection alert for every
// unhealthy service. Used by the scheduled health probe.
func (c *Checker) CheckAndAlert(ctx context.Context) *Report {
	report := c.Check(ctx)

	for _, svc := range report.Services {
		if svc.Healthy {
			continue
		}
		details := map[string]string{
			"Status Code":   statusCodeLabel(svc.StatusCode),
			"Response Time": svc.ResponseTime.String(),
		}
		if svc.Error != "" {
			details["Error"] = svc.Error
		}
		if err := c.notifier.SendConnectionAlert(ctx, svc.Service, false, details); err != nil {
			c.logger.Warn("Connection alert failed",
				zap.String("service", svc.Service),
				zap.Error(err))
		}
	}

	return report
}

// dirWritable probes by creating and removing a marker file.
func dirWritable(dir string) bool {
	if dir == "" {
		return false
	}
	probe := filepath.Join(dir, ".writecheck")
	f, err := os.Create(probe)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(probe)
	return true
}

func statusCodeLabel(code int) string {
	if code == 0 {
		return "n/a"
	}
	return strconv.Itoa(code)
}
