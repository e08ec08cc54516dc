package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"

	"pnlpulse/internal/config"
	"pnlpulse/internal/metrics"
)

// Sheet names in the generated workbook.
const (
	summarySheet = "Summary"
	monthlySheet = "Monthly PNL"
	equitySheet  = "Equity Curve"
)

// ReportWriter renders a client's dashboard output to report files.
type ReportWriter struct {
	paths  *config.Paths
	csv    *CSVWriter
	logger *slog.Logger
}

// NewReportWriter creates a report writer rooted at the reports directory.
func NewReportWriter(paths *config.Paths, logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{
		paths:  paths,
		csv:    NewCSVWriter(paths),
		logger: logger.With(slog.String("component", "exporter")),
	}
}

// SummaryRows renders the summary record as (Metric, Value) rows in its
// fixed display order.
func SummaryRows(s metrics.Summary) [][]string {
	return [][]string{
		{"Total PNL", formatValue(s.TotalPNL)},
		{"Win Days", strconv.Itoa(s.WinDays)},
		{"Loss Days", strconv.Itoa(s.LossDays)},
		{"Win Ratio (%)", formatValue(s.WinRatio)},
		{"Loss Ratio (%)", formatValue(s.LossRatio)},
		{"Avg Profit on Win Days", formatValue(s.AvgProfitOnWinDays)},
		{"Avg Loss on Loss Days", formatValue(s.AvgLossOnLossDays)},
		{"Total Profit on Win Days", formatValue(s.TotalProfitOnWinDays)},
		{"Total Loss on Loss Days", formatValue(s.TotalLossOnLossDays)},
		{"Max Profit", formatValue(s.MaxProfit)},
		{"Max Loss", formatValue(s.MaxLoss)},
		{"Max Drawdown", formatValue(s.MaxDrawdown)},
		{"Current Drawdown", formatValue(s.CurrentDrawdown)},
		{"Max Winning Streak (Days)", strconv.Itoa(s.MaxWinningStreak)},
		{"Max Losing Streak (Days)", strconv.Itoa(s.MaxLosingStreak)},
		{"Risk Reward", formatValue(s.RiskReward)},
		{"Expectancy", formatValue(s.Expectancy)},
	}
}

// MonthlyRows renders the monthly totals as (Month, Total) rows.
func MonthlyRows(monthly []metrics.MonthlyPNL) [][]string {
	rows := make([][]string, 0, len(monthly))
	for _, m := range monthly {
		rows = append(rows, []string{m.Month, formatValue(m.Total)})
	}
	return rows
}

// WriteSummaryCSV writes the summary and monthly tables as one CSV report.
func (w *ReportWriter) WriteSummaryCSV(client string, summary metrics.Summary, monthly []metrics.MonthlyPNL) (string, error) {
	filename := fmt.Sprintf("%s_pnl_summary.csv", sanitizeFilename(client))

	records := SummaryRows(summary)
	records = append(records, []string{"", ""})
	records = append(records, []string{"Month", "Monthly PNL"})
	records = append(records, MonthlyRows(monthly)...)

	err := w.csv.WriteCSV(filename, WriteOptions{
		Headers:   []string{"Metric", "Value"},
		Records:   records,
		BOMPrefix: true,
	})
	if err != nil {
		return "", err
	}
	return w.paths.GetReportPath(filename), nil
}

// SummaryCSVTo streams the summary CSV to dst (the download endpoint).
func (w *ReportWriter) SummaryCSVTo(dst io.Writer, summary metrics.Summary, monthly []metrics.MonthlyPNL) error {
	records := SummaryRows(summary)
	records = append(records, []string{"", ""})
	records = append(records, []string{"Month", "Monthly PNL"})
	records = append(records, MonthlyRows(monthly)...)

	return w.csv.WriteTo(dst, WriteOptions{
		Headers:   []string{"Metric", "Value"},
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteWorkbook writes the full dashboard workbook (summary, monthly,
// equity curve) to the reports directory and returns its path.
func (w *ReportWriter) WriteWorkbook(client string, summary metrics.Summary, monthly []metrics.MonthlyPNL, equity []metrics.EquityPoint) (string, error) {
	f, err := buildWorkbook(summary, monthly, equity)
	if err != nil {
		return "", err
	}
	defer f.Close()

	path := w.paths.GetReportPath(fmt.Sprintf("%s_pnl_dashboard.xlsx", sanitizeFilename(client)))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("wrote dashboard workbook",
		slog.String("client", client),
		slog.String("path", path))
	return path, nil
}

// WorkbookTo streams the dashboard workbook to dst (the download endpoint).
func (w *ReportWriter) WorkbookTo(dst io.Writer, summary metrics.Summary, monthly []metrics.MonthlyPNL, equity []metrics.EquityPoint) error {
	f, err := buildWorkbook(summary, monthly, equity)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(dst); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(summary metrics.Summary, monthly []metrics.MonthlyPNL, equity []metrics.EquityPoint) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename summary sheet: %w", err)
	}
	f.SetCellValue(summarySheet, "A1", "Metric")
	f.SetCellValue(summarySheet, "B1", "Value")
	for i, row := range SummaryRows(summary) {
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+2), row[0])
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+2), row[1])
	}

	if _, err := f.NewSheet(monthlySheet); err != nil {
		return nil, fmt.Errorf("failed to create monthly sheet: %w", err)
	}
	f.SetCellValue(monthlySheet, "A1", "Month")
	f.SetCellValue(monthlySheet, "B1", "Monthly PNL")
	for i, m := range monthly {
		f.SetCellValue(monthlySheet, fmt.Sprintf("A%d", i+2), m.Month)
		f.SetCellValue(monthlySheet, fmt.Sprintf("B%d", i+2), m.Total)
	}

	if _, err := f.NewSheet(equitySheet); err != nil {
		return nil, fmt.Errorf("failed to create equity sheet: %w", err)
	}
	for col, header := range []string{"Date", "Cumulative PNL", "High Water Mark", "Drawdown"} {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(equitySheet, cell, header)
	}
	for i, p := range equity {
		f.SetCellValue(equitySheet, fmt.Sprintf("A%d", i+2), p.Date.Format("2006-01-02"))
		f.SetCellValue(equitySheet, fmt.Sprintf("B%d", i+2), p.Cumulative)
		f.SetCellValue(equitySheet, fmt.Sprintf("C%d", i+2), p.HighWaterMark)
		f.SetCellValue(equitySheet, fmt.Sprintf("D%d", i+2), p.Drawdown)
	}

	return f, nil
}

// formatValue renders a metric value without trailing float noise.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// sanitizeFilename keeps client names filesystem-safe.
func sanitizeFilename(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		case r == ' ':
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "client"
	}
	return string(out)
}
