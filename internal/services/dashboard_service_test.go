package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "pnlpulse/internal/errors"
	"pnlpulse/internal/ledger"
	"pnlpulse/internal/shared/testutil"
	"pnlpulse/internal/sheet"
)

// stubSource returns a fixed grid or a fixed error.
type stubSource struct {
	table ledger.RawTable
	err   error
}

func (s *stubSource) FetchRawTable(ctx context.Context) (ledger.RawTable, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.table, nil
}

func fixtureGrid() ledger.RawTable {
	return testutil.NewGridFixture("Alice", "Bob").
		AddDay("2024-01-02", 10.0, -5.0).
		AddDay("2024-01-03", -4.0, "n/a").
		AddDay("2024-02-01", 6.0, 2.0).
		Build()
}

func newTestDashboardService(t *testing.T, src sheet.Source) *DashboardService {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return NewDashboardService(src, nil, nil, logger, nil)
}

func TestDashboardServiceClients(t *testing.T) {
	svc := newTestDashboardService(t, &stubSource{table: fixtureGrid()})

	clients, err := svc.Clients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, clients)
}

func TestDashboardServiceClientDashboard(t *testing.T) {
	svc := newTestDashboardService(t, &stubSource{table: fixtureGrid()})

	dash, err := svc.ClientDashboard(context.Background(), "Alice")
	require.NoError(t, err)

	assert.Equal(t, "Alice", dash.Client)
	require.Len(t, dash.Series, 3)
	assert.InDelta(t, 12.0, dash.Summary.TotalPNL, 1e-9)
	assert.Equal(t, 2, dash.Summary.WinDays)
	assert.Equal(t, 1, dash.Summary.LossDays)
	require.Len(t, dash.Monthly, 2)
	assert.Equal(t, "2024-01", dash.Monthly[0].Month)
	assert.InDelta(t, 6.0, dash.Monthly[0].Total, 1e-9)
	assert.Equal(t, "2024-02", dash.Monthly[1].Month)
	require.Len(t, dash.Equity, 3)
	assert.InDelta(t, 12.0, dash.Equity[2].Cumulative, 1e-9)
}

func TestDashboardServiceDropsBadCells(t *testing.T) {
	svc := newTestDashboardService(t, &stubSource{table: fixtureGrid()})

	dash, err := svc.ClientDashboard(context.Background(), "Bob")
	require.NoError(t, err)

	// Bob's 2024-01-03 value is unparseable and must be dropped.
	require.Len(t, dash.Series, 2)
	assert.InDelta(t, -3.0, dash.Summary.TotalPNL, 1e-9)
}

func TestDashboardServiceClientNotFound(t *testing.T) {
	svc := newTestDashboardService(t, &stubSource{table: fixtureGrid()})

	_, err := svc.ClientDashboard(context.Background(), "Mallory")

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.Equal(t, "CLIENT_NOT_FOUND", apiErr.ErrorCode)
}

func TestDashboardServiceSourceUnavailable(t *testing.T) {
	svc := newTestDashboardService(t, &stubSource{err: errors.New("boom")})

	_, err := svc.Clients(context.Background())

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 503, apiErr.StatusCode)
}

func TestDashboardServiceEmptySheet(t *testing.T) {
	svc := newTestDashboardService(t, &stubSource{err: sheet.ErrSheetEmpty})

	_, err := svc.ClientDashboard(context.Background(), "Alice")
	assert.ErrorIs(t, err, apierrors.ErrSheetEmpty)
}

func TestDashboardServiceRefresh(t *testing.T) {
	t.Run("without cache", func(t *testing.T) {
		svc := newTestDashboardService(t, &stubSource{table: fixtureGrid()})
		err := svc.Refresh(context.Background())

		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 400, apiErr.StatusCode)
	})

	t.Run("with cache", func(t *testing.T) {
		src := &stubSource{table: fixtureGrid()}
		logger, _ := testutil.NewTestLogger(t)
		cache := sheet.NewCachedSource(src, 0, logger, nil)
		svc := NewDashboardService(cache, cache, nil, logger, nil)

		assert.NoError(t, svc.Refresh(context.Background()))
	})
}

func TestDashboardServiceListSpreadsheetsWithoutLister(t *testing.T) {
	svc := newTestDashboardService(t, &stubSource{table: fixtureGrid()})

	_, err := svc.ListSpreadsheets(context.Background())

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
}
