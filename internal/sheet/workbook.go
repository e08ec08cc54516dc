package sheet

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"pnlpulse/internal/ledger"
)

// Workbook reads the PNL ledger grid from a local xlsx file. It serves the
// same grid shape as the Google Sheets client, so the pipeline behaves
// identically offline.
type Workbook struct {
	path      string
	sheetName string
	logger    *slog.Logger
}

// NewWorkbook creates a local workbook source. sheetName may be empty, in
// which case the first sheet in the file is read.
func NewWorkbook(path, sheetName string, logger *slog.Logger) *Workbook {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workbook{
		path:      path,
		sheetName: sheetName,
		logger:    logger.With(slog.String("component", "sheet.workbook")),
	}
}

// FetchRawTable reads the full grid from the workbook.
func (w *Workbook) FetchRawTable(ctx context.Context) (ledger.RawTable, error) {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook %s: %v", ErrSourceUnavailable, w.path, err)
	}
	defer f.Close()

	sheetName := w.sheetName
	if sheetName == "" {
		if list := f.GetSheetList(); len(list) > 0 {
			sheetName = list[0]
		}
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %v", ErrSourceUnavailable, sheetName, err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrSheetEmpty, len(rows))
	}

	// excelize yields strings; the normalizer's cell classifier handles
	// the rest.
	table := make(ledger.RawTable, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		table[i] = cells
	}

	w.logger.InfoContext(ctx, "read workbook grid",
		slog.String("path", w.path),
		slog.String("sheet", sheetName),
		slog.Int("rows", len(table)))

	return table, nil
}
