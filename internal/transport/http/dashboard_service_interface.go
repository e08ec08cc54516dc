package http

import (
	"context"

	"pnlpulse/internal/services"
	"pnlpulse/internal/sheet"
)

// DashboardServiceInterface defines the service surface the dashboard
// handler depends on. Kept as an interface so handler tests can stub it.
type DashboardServiceInterface interface {
	Clients(ctx context.Context) ([]string, error)
	ClientDashboard(ctx context.Context, client string) (*services.ClientDashboard, error)
	Refresh(ctx context.Context) error
	ListSpreadsheets(ctx context.Context) ([]sheet.SpreadsheetInfo, error)
}
