package ledger

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// RawTable is the full grid of cell values as returned by the spreadsheet
// source: an ordered sequence of rows, each an ordered sequence of untyped
// cells. Rows may be ragged; short rows simply have missing cells.
type RawTable [][]any

// Entry is one cleaned observation: the PNL booked for a client on one day.
type Entry struct {
	Date time.Time `json:"date"`
	PNL  float64   `json:"pnl"`
}

// PnlSeries is a client's cleaned daily PNL history, sorted ascending by
// date. Gaps between dates are allowed; duplicate dates are preserved in
// their original row order.
type PnlSeries []Entry

// Field label row 1 must carry for a column to count as a PNL column.
const dailyPNLLabel = "Daily PNL"

// headerRows is the number of leading rows reserved for the layout headers.
const headerRows = 2

// reservedLabels are row-0 cells that are part of the layout rather than
// client names.
var reservedLabels = map[string]bool{
	"Date":  true,
	"Day":   true,
	"Month": true,
}

// ErrClientNotFound reports that the selected client has no "Daily PNL"
// column in the sheet. The caller should surface it as a warning and skip
// metric computation.
var ErrClientNotFound = errors.New("client's Daily PNL column not found")

// ErrTooFewRows reports a grid without the two header rows the layout
// requires. This is a precondition failure, not a cleanable condition.
var ErrTooFewRows = errors.New("sheet has fewer than 2 rows")

// ValidateLayout checks the one structural contract the normalizer depends
// on: at least the two header rows must be present. Data rows are optional.
func ValidateLayout(raw RawTable) error {
	if len(raw) < headerRows {
		return fmt.Errorf("%w: got %d", ErrTooFewRows, len(raw))
	}
	return nil
}

// headerText reads a header-row cell as a raw string. Header cells are
// matched on the string type alone: a client named "2024" must stay a
// candidate even though the classifier would promote it to a number.
func headerText(raw any) (string, bool) {
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Clients extracts the selectable client names from the header row:
// every non-empty string row-0 cell that is not a reserved layout label,
// deduplicated and sorted lexicographically.
func Clients(raw RawTable) []string {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	for _, rawCell := range raw[0] {
		name, ok := headerText(rawCell)
		if !ok {
			continue
		}
		if reservedLabels[name] {
			continue
		}
		seen[name] = true
	}
	clients := make([]string, 0, len(seen))
	for name := range seen {
		clients = append(clients, name)
	}
	sort.Strings(clients)
	return clients
}

// Normalize extracts the selected client's daily PNL series from the raw
// grid. Rows whose date or PNL cell fails to parse are dropped silently;
// the remainder is sorted ascending by date with original row order
// breaking ties. An empty series is a valid result.
func Normalize(raw RawTable, client string) (PnlSeries, error) {
	if err := ValidateLayout(raw); err != nil {
		return nil, err
	}

	col, ok := findDailyPNLColumn(raw, client)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrClientNotFound, client)
	}

	series := make(PnlSeries, 0, len(raw)-headerRows)
	for _, row := range raw[headerRows:] {
		if len(row) == 0 {
			continue
		}
		date, ok := parseDate(row[0])
		if !ok {
			continue
		}
		if col >= len(row) {
			continue
		}
		pnl, ok := parseNumber(row[col])
		if !ok {
			continue
		}
		series = append(series, Entry{Date: date, PNL: pnl})
	}

	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series, nil
}

// findDailyPNLColumn scans columns left to right for the first column whose
// row-0 cell names the client and whose row-1 cell reads "Daily PNL".
func findDailyPNLColumn(raw RawTable, client string) (int, bool) {
	labels := raw[1]
	for col, rawCell := range raw[0] {
		name, ok := headerText(rawCell)
		if !ok || name != client {
			continue
		}
		if col >= len(labels) {
			continue
		}
		if label, ok := headerText(labels[col]); ok && label == dailyPNLLabel {
			return col, true
		}
	}
	return 0, false
}
