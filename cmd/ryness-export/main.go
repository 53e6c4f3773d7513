package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joseph-ayodele/ryness-reports/constants"
	"github.com/joseph-ayodele/ryness-reports/internal/app"
	"github.com/joseph-ayodele/ryness-reports/internal/common"
	"github.com/joseph-ayodele/ryness-reports/internal/export"
	"github.com/joseph-ayodele/ryness-reports/internal/repository"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := common.LoadConfig()

	var (
		dsn      = flag.String("db", cfg.Database.DSN, "SQLite file or postgres:// URL")
		reportID = flag.Int64("report", 0, "report id to export (default: latest)")
		out      = flag.String("out", "", "output XLSX path (default: report-<id>.xlsx)")
	)
	flag.Parse()
	cfg.Database.DSN = *dsn
	if *reportID < 0 {
		fmt.Fprintln(os.Stderr, "Error: -report must not be negative")
		return constants.ExitUsage
	}

	logger := common.NewLogger(os.Stderr, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := app.OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return constants.ExitFailures
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	reports := repository.NewReportRepository(db, logger)
	id := *reportID
	if id == 0 {
		if id, err = reports.LatestReportID(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "No reports stored.")
			return constants.ExitFailures
		}
	}

	data, err := export.NewService(reports, logger).ExportReportXLSX(ctx, id)
	if err != nil {
		logger.Error("export failed", "report_id", id, "code", common.StatusCode(err).String(), "error", err)
		if export.IsNotFound(err) {
			fmt.Fprintf(os.Stderr, "Report %d not found.\n", id)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return app.ExitCode(err)
	}

	path := *out
	if path == "" {
		path = fmt.Sprintf("report-%d.xlsx", id)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: write %s: %v\n", path, err)
		return constants.ExitFailures
	}
	fmt.Printf("Wrote report %d to %s\n", id, path)
	return constants.ExitOK
}
