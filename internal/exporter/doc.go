// Package exporter writes client dashboard output to report files: a CSV
// rendition of the summary and monthly tables, and a multi-sheet xlsx
// workbook for spreadsheet consumers.
package exporter
