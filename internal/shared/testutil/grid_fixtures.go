package testutil

import (
	"pnlpulse/internal/ledger"
)

// GridFixture builds raw two-header-row PNL grids for tests: row 0 names
// the clients, row 1 labels every client column "Daily PNL", and data rows
// follow with the date in column 0.
type GridFixture struct {
	clients []string
	rows    [][]any
}

// NewGridFixture creates a fixture with one "Daily PNL" column per client.
func NewGridFixture(clients ...string) *GridFixture {
	return &GridFixture{clients: clients}
}

// AddDay appends one data row: a date cell followed by one PNL cell per
// client, in the client order the fixture was created with. Values are
// raw cells, so tests can pass strings, numbers, or nil to exercise the
// normalizer's cleaning.
func (f *GridFixture) AddDay(date any, pnls ...any) *GridFixture {
	row := make([]any, 0, len(pnls)+1)
	row = append(row, date)
	row = append(row, pnls...)
	f.rows = append(f.rows, row)
	return f
}

// AddRow appends an arbitrary raw row, bypassing the per-client shape.
func (f *GridFixture) AddRow(cells ...any) *GridFixture {
	f.rows = append(f.rows, cells)
	return f
}

// Build assembles the raw table.
func (f *GridFixture) Build() ledger.RawTable {
	header := make([]any, 0, len(f.clients)+1)
	header = append(header, "Date")
	labels := make([]any, 0, len(f.clients)+1)
	labels = append(labels, "")
	for _, c := range f.clients {
		header = append(header, c)
		labels = append(labels, "Daily PNL")
	}

	table := ledger.RawTable{header, labels}
	return append(table, f.rows...)
}
