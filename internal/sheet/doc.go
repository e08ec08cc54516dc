// Package sheet fetches the raw client PNL grid from its spreadsheet
// source. The primary source is a Google Sheet read through the Sheets v4
// API; a local xlsx workbook source covers offline use, and a TTL cache
// decorator keeps repeated client selections from re-downloading the table.
package sheet
