package sheet

import (
	"context"
	"errors"

	"pnlpulse/internal/ledger"
)

// Source supplies the raw spreadsheet grid the normalizer consumes.
// Implementations must return ErrSheetEmpty when the grid has fewer than
// the two header rows the layout requires.
type Source interface {
	FetchRawTable(ctx context.Context) (ledger.RawTable, error)
}

var (
	// ErrSourceUnavailable reports that the spreadsheet source could not
	// supply a table at all. Fatal to the request.
	ErrSourceUnavailable = errors.New("spreadsheet source unavailable")

	// ErrSheetEmpty reports a grid with fewer than 2 rows; without both
	// header rows column detection cannot even be attempted.
	ErrSheetEmpty = errors.New("sheet has fewer than 2 rows")
)
