package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"pnlpulse/internal/config"
	"pnlpulse/internal/exporter"
	"pnlpulse/internal/infrastructure"
	"pnlpulse/internal/ledger"
	"pnlpulse/internal/metrics"
	"pnlpulse/internal/sheet"
)

func main() {
	client := flag.String("client", "", "client name to report on (required unless -list)")
	list := flag.Bool("list", false, "list the selectable clients and exit")
	file := flag.String("file", "", "read the grid from a local xlsx workbook instead of Google Sheets")
	sheetName := flag.String("sheet", "", "sheet name inside the workbook (default: first sheet)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	ctx := infrastructure.ContextWithTraceID(context.Background())

	source, err := buildSource(ctx, cfg, *file, *sheetName, logger)
	if err != nil {
		logger.Error("Failed to initialize spreadsheet source", "error", err)
		os.Exit(1)
	}

	raw, err := source.FetchRawTable(ctx)
	if err != nil {
		logger.Error("Failed to fetch raw table", "error", err)
		os.Exit(1)
	}

	clients := ledger.Clients(raw)
	if *list {
		for _, name := range clients {
			fmt.Println(name)
		}
		return
	}

	if *client == "" {
		logger.Error("No client selected", "hint", "pass -client or use -list to see the choices")
		os.Exit(1)
	}

	series, err := ledger.Normalize(raw, *client)
	if err != nil {
		logger.Error("Failed to normalize series",
			"client", *client,
			"error", err,
			"available_clients", clients)
		os.Exit(1)
	}

	summary, monthly := metrics.Compute(series)
	equity := metrics.EquityCurve(series)

	logger.Info("computed client metrics",
		"client", *client,
		"days", len(series),
		"total_pnl", summary.TotalPNL,
		"max_drawdown", summary.MaxDrawdown)

	paths, err := config.GetPaths()
	if err != nil {
		logger.Error("Failed to resolve paths", "error", err)
		os.Exit(1)
	}

	writer := exporter.NewReportWriter(paths, logger)

	csvPath, err := writer.WriteSummaryCSV(*client, summary, monthly)
	if err != nil {
		logger.Error("Failed to write summary CSV", "error", err)
		os.Exit(1)
	}

	xlsxPath, err := writer.WriteWorkbook(*client, summary, monthly, equity)
	if err != nil {
		logger.Error("Failed to write dashboard workbook", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Report written:\n  %s\n  %s\n", csvPath, xlsxPath)
}

// buildSource picks the local workbook when -file was given, the Google
// Sheet otherwise.
func buildSource(ctx context.Context, cfg *config.Config, file, sheetName string, logger *slog.Logger) (sheet.Source, error) {
	if file != "" {
		return sheet.NewWorkbook(file, sheetName, logger), nil
	}
	return sheet.NewClient(ctx, cfg.Sheets, logger)
}
