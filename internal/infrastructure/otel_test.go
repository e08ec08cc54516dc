package infrastructure

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelemetryNilSafe(t *testing.T) {
	// Record methods must be no-ops on a nil receiver so callers can run
	// without telemetry wired (the report CLI does).
	var tel *Telemetry
	ctx := context.Background()

	tel.RecordFetch(ctx, "ok")
	tel.RecordCacheHit(ctx)
	tel.RecordCompute(ctx, 0.5, "Alice")
	assert.NoError(t, tel.Shutdown(ctx))
}

func TestInitializeTelemetry(t *testing.T) {
	tel, err := InitializeTelemetry("test", nil)
	require.NoError(t, err)
	require.NotNil(t, tel)
	defer tel.Shutdown(context.Background())

	tel.RecordFetch(context.Background(), "ok")
	tel.RecordCacheHit(context.Background())
	tel.RecordCompute(context.Background(), 0.01, "Alice")

	require.NotNil(t, tel.PrometheusHTTP)
	rec := httptest.NewRecorder()
	tel.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "sheet_fetches_total")
}
