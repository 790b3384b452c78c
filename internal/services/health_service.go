package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"trainpulse/pkg/contracts"
)

// Checker reports whether a spreadsheet is reachable
type Checker interface {
	Check(ctx context.Context, spreadsheetID string) error
}

// HealthService provides health check functionality
type HealthService struct {
	version       string
	spreadsheetID string
	checker       Checker
	startTime     time.Time
	timeNow       func() time.Time
	logger        *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// Ready reports whether every dependency is ready
func (s HealthStatus) Ready() bool {
	return s.Status == StatusReady
}

// ServiceHealth represents individual dependency health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Health states
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
)

// NewHealthService creates a health service. spreadsheetID is the sheet
// probed by the readiness check.
func NewHealthService(version, spreadsheetID string, checker Checker, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:       version,
		spreadsheetID: spreadsheetID,
		checker:       checker,
		startTime:     time.Now(),
		timeNow:       time.Now,
		logger:        logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck reports liveness with runtime details
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusOK,
		Timestamp: hs.timeNow(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     hs.timeNow().Sub(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// ReadinessCheck probes the spreadsheet and reports ready only when it
// can be read
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: hs.timeNow(),
		Version:   hs.version,
		Services:  map[string]ServiceHealth{"sheets": hs.checkSheets(ctx)},
	}

	for _, svc := range status.Services {
		if svc.Status != StatusReady {
			status.Status = StatusNotReady
			break
		}
	}
	return status
}

func (hs *HealthService) checkSheets(ctx context.Context) ServiceHealth {
	if hs.checker == nil {
		return ServiceHealth{Status: StatusNotReady, Message: "sheets client not initialized"}
	}

	start := hs.timeNow()
	err := hs.checker.Check(ctx, hs.spreadsheetID)
	latency := hs.timeNow().Sub(start)
	if err != nil {
		hs.logger.WarnContext(ctx, "readiness check failed",
			slog.String("spreadsheet_id", hs.spreadsheetID),
			slog.String("error", err.Error()))
		return ServiceHealth{Status: StatusNotReady, Message: err.Error(), Latency: latency.String()}
	}
	return ServiceHealth{Status: StatusReady, Message: "spreadsheet reachable", Latency: latency.String()}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	return map[string]interface{}{
		"version":    hs.version,
		"build_time": contracts.BuildTime,
		"git_commit": contracts.GitCommit,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"start_time": hs.startTime.Format(time.RFC3339),
	}
}
