package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pnlpulse/internal/shared/testutil"
)

// stubChecker implements SheetChecker.
type stubChecker struct {
	titles []string
	err    error
}

func (s *stubChecker) SheetTitles(ctx context.Context) ([]string, error) {
	return s.titles, s.err
}

func TestHealthCheck(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	svc := NewHealthService("1.2.3", "Clients Daily PNL", nil, nil, logger)

	status := svc.HealthCheck(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.Contains(t, status.Runtime, "go_version")
	assert.Contains(t, status.Runtime, "uptime_seconds")
	assert.Nil(t, status.Services, "no websocket hub means no services block")
}

func TestReadinessCheck(t *testing.T) {
	t.Run("checker not configured", func(t *testing.T) {
		logger, _ := testutil.NewTestLogger(t)
		svc := NewHealthService("dev", "Clients Daily PNL", nil, nil, logger)

		status := svc.ReadinessCheck(context.Background())
		assert.Equal(t, "ready", status.Status)
		assert.Equal(t, "not configured", status.Services["sheets"])
	})

	t.Run("sheet present", func(t *testing.T) {
		logger, _ := testutil.NewTestLogger(t)
		checker := &stubChecker{titles: []string{"Other", "Clients Daily PNL"}}
		svc := NewHealthService("dev", "Clients Daily PNL", checker, nil, logger)

		status := svc.ReadinessCheck(context.Background())
		require.Equal(t, "ready", status.Status)

		sheets := status.Services["sheets"].(map[string]interface{})
		assert.Equal(t, true, sheets["reachable"])
		assert.Equal(t, true, sheets["sheet_configured"])
	})

	t.Run("sheet missing", func(t *testing.T) {
		logger, _ := testutil.NewTestLogger(t)
		checker := &stubChecker{titles: []string{"Other"}}
		svc := NewHealthService("dev", "Clients Daily PNL", checker, nil, logger)

		status := svc.ReadinessCheck(context.Background())
		assert.Equal(t, "not ready", status.Status)
	})

	t.Run("source unreachable", func(t *testing.T) {
		logger, handler := testutil.NewTestLogger(t)
		checker := &stubChecker{err: errors.New("dial timeout")}
		svc := NewHealthService("dev", "Clients Daily PNL", checker, nil, logger)

		status := svc.ReadinessCheck(context.Background())
		assert.Equal(t, "not ready", status.Status)

		sheets := status.Services["sheets"].(map[string]interface{})
		assert.Equal(t, false, sheets["reachable"])
		assert.True(t, handler.ContainsMessage("readiness: sheet source unreachable"))
	})
}

func TestVersion(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	svc := NewHealthService("v9", "Clients Daily PNL", nil, nil, logger)

	assert.Equal(t, map[string]string{"version": "v9"}, svc.Version())
}
