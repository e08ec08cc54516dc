package ledger

import (
	"strconv"
	"strings"
	"time"
)

// CellKind classifies a raw spreadsheet cell after inspection. The Sheets
// values API hands back untyped values (string, float64, or nothing at all),
// so every cell is tagged explicitly instead of coerced in place.
type CellKind int

const (
	// CellMissing marks an absent or blank cell.
	CellMissing CellKind = iota
	// CellText marks a non-empty textual cell.
	CellText
	// CellNumber marks a cell that carries a numeric value.
	CellNumber
	// CellUnparseable marks a non-empty cell that is neither clean text
	// nor a recognizable number (e.g. "#REF!").
	CellUnparseable
)

// Cell is the tagged result of classifying one raw grid value.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// dateLayouts are the date formats observed in the sheet's date column.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"2/1/2006",
	"2006-01-02 15:04:05",
}

// Classify inspects a raw cell value and returns its tagged form.
// Numeric strings (including comma-grouped ones) classify as numbers.
func Classify(raw any) Cell {
	switch v := raw.(type) {
	case nil:
		return Cell{Kind: CellMissing}
	case float64:
		return Cell{Kind: CellNumber, Number: v}
	case int:
		return Cell{Kind: CellNumber, Number: float64(v)}
	case int64:
		return Cell{Kind: CellNumber, Number: float64(v)}
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return Cell{Kind: CellMissing}
		}
		if n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
			return Cell{Kind: CellNumber, Text: s, Number: n}
		}
		return Cell{Kind: CellText, Text: s}
	default:
		return Cell{Kind: CellUnparseable}
	}
}

// parseDate attempts to read a calendar date from a raw date-column cell.
func parseDate(raw any) (time.Time, bool) {
	cell := Classify(raw)
	if cell.Kind != CellText && cell.Kind != CellNumber {
		return time.Time{}, false
	}
	s := cell.Text
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// parseNumber attempts to read a signed decimal from a raw value cell.
func parseNumber(raw any) (float64, bool) {
	cell := Classify(raw)
	if cell.Kind != CellNumber {
		return 0, false
	}
	return cell.Number, true
}
