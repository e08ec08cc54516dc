package sheet

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"pnlpulse/internal/config"
)

// spreadsheetMimeType filters Drive listings to Google Sheets files.
const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// SpreadsheetInfo identifies one spreadsheet visible to the service account.
type SpreadsheetInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Lister enumerates the spreadsheets the service account can see. It is a
// diagnostic surface: when the configured spreadsheet ID is wrong, the
// listing shows what the account can actually reach.
type Lister struct {
	service *drive.Service
	logger  *slog.Logger
}

// NewLister creates a Drive API client with read-only scope. Listing
// requires service-account credentials; an API key is not enough.
func NewLister(ctx context.Context, cfg config.SheetsConfig, logger *slog.Logger) (*Lister, error) {
	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("spreadsheet listing requires a service account credentials file")
	}
	if logger == nil {
		logger = slog.Default()
	}

	credentialsJSON, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	service, err := drive.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(drive.DriveReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &Lister{
		service: service,
		logger:  logger.With(slog.String("component", "sheet.lister")),
	}, nil
}

// ListSpreadsheets returns the spreadsheets visible to the service account.
func (l *Lister) ListSpreadsheets(ctx context.Context) ([]SpreadsheetInfo, error) {
	resp, err := l.service.Files.List().
		Q(fmt.Sprintf("mimeType='%s'", spreadsheetMimeType)).
		PageSize(100).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	infos := make([]SpreadsheetInfo, 0, len(resp.Files))
	for _, f := range resp.Files {
		infos = append(infos, SpreadsheetInfo{ID: f.Id, Name: f.Name})
	}

	l.logger.InfoContext(ctx, "listed visible spreadsheets", slog.Int("count", len(infos)))
	return infos, nil
}
