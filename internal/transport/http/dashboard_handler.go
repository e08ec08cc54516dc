package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "pnlpulse/internal/errors"
	"pnlpulse/internal/exporter"
)

// DashboardHandler handles the client PNL dashboard API.
type DashboardHandler struct {
	service      DashboardServiceInterface
	reports      *exporter.ReportWriter
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(service DashboardServiceInterface, reports *exporter.ReportWriter, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		reports:      reports,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/clients", h.GetClients)
	r.Get("/spreadsheets", h.GetSpreadsheets)
	r.Post("/refresh", h.Refresh)

	r.Route("/clients/{client}", func(r chi.Router) {
		r.Use(h.ClientCtx)
		r.Get("/dashboard", h.GetDashboard)
		r.Get("/summary", h.GetSummary)
		r.Get("/monthly", h.GetMonthly)
		r.Get("/equity", h.GetEquity)
		r.Get("/export", h.Export)
	})

	return r
}

// ClientCtx middleware validates the client URL parameter.
func (h *DashboardHandler) ClientCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := chi.URLParam(r, "client")
		if client == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("client", "Client name is required"))
			return
		}
		if len(client) > 100 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("client", "Client name too long"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClients handles GET /api/clients
func (h *DashboardHandler) GetClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.service.Clients(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"clients": clients,
		"count":   len(clients),
	})
}

// GetDashboard handles GET /api/clients/{client}/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.ClientDashboard(r.Context(), chi.URLParam(r, "client"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, dashboard)
}

// GetSummary handles GET /api/clients/{client}/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.ClientDashboard(r.Context(), chi.URLParam(r, "client"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, dashboard.Summary)
}

// GetMonthly handles GET /api/clients/{client}/monthly
func (h *DashboardHandler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.ClientDashboard(r.Context(), chi.URLParam(r, "client"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, dashboard.Monthly)
}

// GetEquity handles GET /api/clients/{client}/equity
func (h *DashboardHandler) GetEquity(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.ClientDashboard(r.Context(), chi.URLParam(r, "client"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, dashboard.Equity)
}

// Export handles GET /api/clients/{client}/export?format=csv|xlsx
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	client := chi.URLParam(r, "client")

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", fmt.Sprintf("Unsupported export format: %s", format)))
		return
	}

	dashboard, err := h.service.ClientDashboard(r.Context(), client)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_pnl_summary.csv"`, client))
		if err := h.reports.SummaryCSVTo(w, dashboard.Summary, dashboard.Monthly); err != nil {
			h.logger.ErrorContext(r.Context(), "csv export failed",
				slog.String("client", client),
				slog.String("error", err.Error()))
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_pnl_dashboard.xlsx"`, client))
		if err := h.reports.WorkbookTo(w, dashboard.Summary, dashboard.Monthly, dashboard.Equity); err != nil {
			h.logger.ErrorContext(r.Context(), "xlsx export failed",
				slog.String("client", client),
				slog.String("error", err.Error()))
		}
	}
}

// GetSpreadsheets handles GET /api/spreadsheets
func (h *DashboardHandler) GetSpreadsheets(w http.ResponseWriter, r *http.Request) {
	infos, err := h.service.ListSpreadsheets(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"spreadsheets": infos,
		"count":        len(infos),
	})
}

// Refresh handles POST /api/refresh
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Refresh(r.Context()); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]string{"status": "refreshed"})
}
