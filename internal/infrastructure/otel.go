package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	// ServiceName identifies this service in exported telemetry.
	ServiceName = "pnlpulse"
	// MeterName is the instrumentation scope for this module's metrics.
	MeterName = "pnlpulse"
)

// Telemetry bundles the OpenTelemetry meter provider, the application's
// instruments, and the Prometheus scrape handler.
type Telemetry struct {
	MeterProvider  *sdkmetric.MeterProvider
	Meter          metric.Meter
	PrometheusHTTP http.Handler

	SheetFetches    metric.Int64Counter
	CacheHits       metric.Int64Counter
	ComputeDuration metric.Float64Histogram
}

// InitializeTelemetry sets up an OpenTelemetry meter provider backed by a
// Prometheus exporter and creates the instruments used across the service.
func InitializeTelemetry(version string, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(MeterName)

	tel := &Telemetry{
		MeterProvider:  provider,
		Meter:          meter,
		PrometheusHTTP: promhttp.Handler(),
	}

	tel.SheetFetches, err = meter.Int64Counter("sheet_fetches_total",
		metric.WithDescription("Spreadsheet fetch attempts by result"))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet_fetches_total: %w", err)
	}
	tel.CacheHits, err = meter.Int64Counter("sheet_cache_hits_total",
		metric.WithDescription("Raw table cache hits"))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet_cache_hits_total: %w", err)
	}
	tel.ComputeDuration, err = meter.Float64Histogram("metrics_compute_duration_seconds",
		metric.WithDescription("Duration of one normalize+compute pass"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics_compute_duration_seconds: %w", err)
	}

	logger.Info("telemetry initialized",
		slog.String("service", ServiceName),
		slog.String("version", version))

	return tel, nil
}

// RecordFetch records one fetch attempt with its outcome.
func (t *Telemetry) RecordFetch(ctx context.Context, result string) {
	if t == nil || t.SheetFetches == nil {
		return
	}
	t.SheetFetches.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordCacheHit records one cache hit on the raw table cache.
func (t *Telemetry) RecordCacheHit(ctx context.Context) {
	if t == nil || t.CacheHits == nil {
		return
	}
	t.CacheHits.Add(ctx, 1)
}

// RecordCompute records the duration of one full recomputation.
func (t *Telemetry) RecordCompute(ctx context.Context, seconds float64, client string) {
	if t == nil || t.ComputeDuration == nil {
		return
	}
	t.ComputeDuration.Record(ctx, seconds, metric.WithAttributes(attribute.String("client", client)))
}

// Shutdown flushes and stops the meter provider.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil || t.MeterProvider == nil {
		return nil
	}
	return t.MeterProvider.Shutdown(ctx)
}
