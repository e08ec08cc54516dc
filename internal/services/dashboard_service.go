package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apierrors "pnlpulse/internal/errors"
	"pnlpulse/internal/infrastructure"
	"pnlpulse/internal/ledger"
	"pnlpulse/internal/metrics"
	"pnlpulse/internal/sheet"
)

// ClientDashboard is the full payload for one selected client: the cleaned
// series, its summary statistics, the monthly totals, and the equity curve
// behind the two charts.
type ClientDashboard struct {
	Client  string                `json:"client"`
	Series  ledger.PnlSeries      `json:"series"`
	Summary metrics.Summary       `json:"summary"`
	Monthly []metrics.MonthlyPNL  `json:"monthly"`
	Equity  []metrics.EquityPoint `json:"equity"`
}

// DashboardService orchestrates one selection's pipeline: fetch the raw
// table, normalize the selected client's series, compute its metrics.
// It holds no per-selection state; every call recomputes from the
// (possibly cached) raw table, so the latest call always wins.
type DashboardService struct {
	source sheet.Source
	cache  *sheet.CachedSource
	lister *sheet.Lister
	logger *slog.Logger
	tel    *infrastructure.Telemetry
}

// NewDashboardService creates the dashboard service. cache and lister are
// optional: cache enables explicit refresh, lister enables the Drive
// spreadsheet listing.
func NewDashboardService(source sheet.Source, cache *sheet.CachedSource, lister *sheet.Lister, logger *slog.Logger, tel *infrastructure.Telemetry) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		source: source,
		cache:  cache,
		lister: lister,
		logger: logger.With(slog.String("service", "dashboard")),
		tel:    tel,
	}
}

// Clients returns the sorted list of selectable client names.
func (s *DashboardService) Clients(ctx context.Context) ([]string, error) {
	raw, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.Clients(raw), nil
}

// ClientDashboard recomputes the full dashboard payload for one client.
func (s *DashboardService) ClientDashboard(ctx context.Context, client string) (*ClientDashboard, error) {
	start := time.Now()

	raw, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	series, err := ledger.Normalize(raw, client)
	if err != nil {
		if errors.Is(err, ledger.ErrClientNotFound) {
			s.logger.WarnContext(ctx, "client not found", slog.String("client", client))
			return nil, apierrors.ClientNotFound(client)
		}
		return nil, fmt.Errorf("normalize: %w", err)
	}

	summary, monthly := metrics.Compute(series)
	equity := metrics.EquityCurve(series)

	s.tel.RecordCompute(ctx, time.Since(start).Seconds(), client)
	s.logger.InfoContext(ctx, "computed client dashboard",
		slog.String("client", client),
		slog.Int("days", len(series)),
		slog.Duration("elapsed", time.Since(start)))

	return &ClientDashboard{
		Client:  client,
		Series:  series,
		Summary: summary,
		Monthly: monthly,
		Equity:  equity,
	}, nil
}

// Refresh invalidates the raw table cache so the next selection refetches.
func (s *DashboardService) Refresh(ctx context.Context) error {
	if s.cache == nil {
		return apierrors.New(400, "INVALID_REQUEST", "Refresh is not available without a cache")
	}
	s.cache.Invalidate()
	s.logger.InfoContext(ctx, "cache invalidated by request")
	return nil
}

// ListSpreadsheets enumerates the spreadsheets visible to the configured
// service account.
func (s *DashboardService) ListSpreadsheets(ctx context.Context) ([]sheet.SpreadsheetInfo, error) {
	if s.lister == nil {
		return nil, apierrors.New(400, "INVALID_REQUEST", "Spreadsheet listing requires service account credentials")
	}
	infos, err := s.lister.ListSpreadsheets(ctx)
	if err != nil {
		return nil, apierrors.SourceUnavailable(err)
	}
	return infos, nil
}

// fetch pulls the raw table and maps source failures to API errors.
func (s *DashboardService) fetch(ctx context.Context) (ledger.RawTable, error) {
	raw, err := s.source.FetchRawTable(ctx)
	if err != nil {
		switch {
		case errors.Is(err, sheet.ErrSheetEmpty):
			return nil, apierrors.ErrSheetEmpty
		default:
			return nil, apierrors.SourceUnavailable(err)
		}
	}
	return raw, nil
}
