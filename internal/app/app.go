package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"pnlpulse/internal/config"
	apierrors "pnlpulse/internal/errors"
	"pnlpulse/internal/exporter"
	"pnlpulse/internal/infrastructure"
	customMiddleware "pnlpulse/internal/middleware"
	"pnlpulse/internal/services"
	"pnlpulse/internal/sheet"
	transport "pnlpulse/internal/transport/http"
	ws "pnlpulse/internal/websocket"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Application wires the dashboard's components together and owns the
// HTTP server lifecycle.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Router chi.Router
	Server *http.Server

	Telemetry *infrastructure.Telemetry
	Hub       *ws.Hub

	dashboardService *services.DashboardService
	healthService    *services.HealthService
	reportWriter     *exporter.ReportWriter
}

// NewApplication builds an application from configuration: sheets client,
// cache, services, handlers, router, server.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	a := &Application{
		Config: cfg,
		Logger: logger,
	}

	if err := a.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	a.setupRouter()
	a.createServer()

	return a, nil
}

func (a *Application) initializeServices() error {
	ctx := context.Background()

	tel, err := infrastructure.InitializeTelemetry(Version, a.Logger)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	a.Telemetry = tel

	client, err := sheet.NewClient(ctx, a.Config.Sheets, a.Logger)
	if err != nil {
		return fmt.Errorf("sheets client: %w", err)
	}

	cache := sheet.NewCachedSource(client, a.Config.Sheets.CacheTTL, a.Logger, tel)

	a.Hub = ws.NewHub(a.Logger)
	cache.OnRefresh(func(rows int) {
		a.Hub.BroadcastRefresh(rows)
	})

	// Drive listing is optional: it needs service account credentials.
	var lister *sheet.Lister
	if a.Config.Sheets.CredentialsFile != "" {
		lister, err = sheet.NewLister(ctx, a.Config.Sheets, a.Logger)
		if err != nil {
			a.Logger.Warn("spreadsheet listing disabled", slog.String("error", err.Error()))
		}
	}

	paths, err := config.GetPaths()
	if err != nil {
		return fmt.Errorf("paths: %w", err)
	}

	a.dashboardService = services.NewDashboardService(cache, cache, lister, a.Logger, tel)
	a.healthService = services.NewHealthService(Version, a.Config.Sheets.SheetName, client, a.Hub, a.Logger)
	a.reportWriter = exporter.NewReportWriter(paths, a.Logger)

	return nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Minimal middleware first; these don't wrap the ResponseWriter and
	// are safe for the websocket upgrade.
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.HandleFunc("/ws", ws.ServeWS(a.Hub, a.Logger))

	// Prometheus scrape endpoint stays outside the middleware group.
	if a.Telemetry.PrometheusHTTP != nil {
		r.Handle("/metrics", a.Telemetry.PrometheusHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
				Logger:         a.Logger,
			}))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
	})

	a.Router = r
}

func (a *Application) setupAPIRoutes(r chi.Router) {
	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	r.Route("/api", func(r chi.Router) {
		healthHandler := transport.NewHealthHandler(a.healthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/version", healthHandler.Version)

		dashboardHandler := transport.NewDashboardHandler(a.dashboardService, a.reportWriter, a.Logger, errorHandler)
		r.Mount("/", dashboardHandler.Routes())
	})
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run starts the server and blocks until a shutdown signal arrives or the
// listener fails.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Hub.Start()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("server starting",
			slog.String("addr", a.Server.Addr),
			slog.String("version", Version))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return a.shutdown()
	})

	return g.Wait()
}

func (a *Application) shutdown() error {
	a.Logger.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	a.Hub.Stop()

	if err := a.Telemetry.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
	}

	infrastructure.CloseLogFile()

	a.Logger.Info("server stopped")
	return nil
}
