package sheet

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"pnlpulse/internal/config"
	"pnlpulse/internal/ledger"
)

// Client reads the PNL ledger grid from a Google Sheet.
type Client struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
	logger        *slog.Logger
}

// NewClient creates a Sheets API client from the configured credentials.
// A service-account key file takes precedence; the API key fallback only
// works for sheets shared publicly.
func NewClient(ctx context.Context, cfg config.SheetsConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "sheet.client"))

	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets config is missing spreadsheet_id")
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		credentialsJSON, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		opts = append(opts,
			option.WithCredentialsJSON(credentialsJSON),
			option.WithScopes(sheets.SpreadsheetsReadonlyScope))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		return nil, fmt.Errorf("sheets config carries neither credentials file nor API key")
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	logger.InfoContext(ctx, "sheets service initialized",
		slog.String("spreadsheet_id", cfg.SpreadsheetID),
		slog.String("sheet_name", cfg.SheetName))

	return &Client{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		logger:        logger,
	}, nil
}

// FetchRawTable downloads the full grid of the configured sheet.
func (c *Client) FetchRawTable(ctx context.Context) (ledger.RawTable, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, c.sheetName).Context(ctx).Do()
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to read sheet values",
			slog.String("spreadsheet_id", c.spreadsheetID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	if len(resp.Values) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrSheetEmpty, len(resp.Values))
	}

	c.logger.InfoContext(ctx, "fetched raw table",
		slog.Int("rows", len(resp.Values)))

	return ledger.RawTable(resp.Values), nil
}

// SheetTitles lists the sheet tabs in the configured spreadsheet. Used by
// the readiness check to confirm the configured sheet name exists.
func (c *Client) SheetTitles(ctx context.Context) ([]string, error) {
	meta, err := c.service.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	titles := make([]string, 0, len(meta.Sheets))
	for _, s := range meta.Sheets {
		if s.Properties != nil {
			titles = append(titles, s.Properties.Title)
		}
	}
	return titles, nil
}
