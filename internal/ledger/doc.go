// Package ledger converts the raw client PNL spreadsheet grid into clean,
// per-client daily PNL series.
//
// The source sheet uses a two-row header convention: row 0 repeats each
// client's name across that client's column group, row 1 labels each column
// ("Daily PNL" marks the column this package extracts), and data starts at
// row 2 with the calendar date always in column 0. Everything that depends
// on that layout lives in this package so the convention can be validated or
// swapped without touching the metrics engine.
package ledger
