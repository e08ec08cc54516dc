package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	ws "pnlpulse/internal/websocket"
)

// SheetChecker reports the sheet tabs reachable in the configured
// spreadsheet. Implemented by sheet.Client; nil when running off a local
// workbook.
type SheetChecker interface {
	SheetTitles(ctx context.Context) ([]string, error)
}

// HealthService provides health check functionality
type HealthService struct {
	version      string
	sheetName    string
	sheetChecker SheetChecker
	webSocketHub *ws.Hub
	startTime    time.Time
	logger       *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// NewHealthService creates a new health service with injected dependencies
func NewHealthService(version, sheetName string, sheetChecker SheetChecker, webSocketHub *ws.Hub, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:      version,
		sheetName:    sheetName,
		sheetChecker: sheetChecker,
		webSocketHub: webSocketHub,
		startTime:    time.Now(),
		logger:       logger.With(slog.String("service", "health")),
	}
}

// HealthCheck reports liveness plus basic runtime detail.
func (s *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"os":             runtime.GOOS,
			"arch":           runtime.GOARCH,
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(s.startTime).Seconds(),
		},
	}
	if s.webSocketHub != nil {
		status.Services = map[string]interface{}{
			"websocket_clients": s.webSocketHub.ClientCount(),
		}
	}
	return status
}

// ReadinessCheck verifies the spreadsheet source is reachable and the
// configured sheet tab exists.
func (s *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
		Services:  map[string]interface{}{},
	}

	if s.sheetChecker == nil {
		status.Services["sheets"] = "not configured"
		return status
	}

	titles, err := s.sheetChecker.SheetTitles(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "readiness: sheet source unreachable",
			slog.String("error", err.Error()))
		status.Status = "not ready"
		status.Services["sheets"] = map[string]interface{}{
			"reachable": false,
			"error":     err.Error(),
		}
		return status
	}

	found := false
	for _, t := range titles {
		if t == s.sheetName {
			found = true
			break
		}
	}
	status.Services["sheets"] = map[string]interface{}{
		"reachable":        true,
		"available_sheets": titles,
		"sheet_configured": found,
	}
	if !found {
		status.Status = "not ready"
	}
	return status
}

// Version returns the build version payload.
func (s *HealthService) Version() map[string]string {
	return map[string]string{
		"version": s.version,
	}
}
