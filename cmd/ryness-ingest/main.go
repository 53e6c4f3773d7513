package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joseph-ayodele/ryness-reports/constants"
	"github.com/joseph-ayodele/ryness-reports/internal/app"
	"github.com/joseph-ayodele/ryness-reports/internal/common"
	"github.com/joseph-ayodele/ryness-reports/internal/core"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg := common.LoadConfig()

	var (
		dsn     = flag.String("db", cfg.Database.DSN, "SQLite file or postgres:// URL")
		profile = flag.String("profile", cfg.Ingest.ProfilePath, "layout profile JSON (optional)")
		timeout = flag.Duration("timeout", 0, "per-document timeout (0 disables)")
		asJSON  = flag.Bool("json", false, "print the ingest result as JSON on stdout")
		dryRun  = flag.Bool("dry-run", false, "print the extracted report as JSON without storing it")
	)
	flag.Usage = func() {
		printError("usage: %s [flags] <report.pdf>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return constants.ExitUsage
	}
	path := flag.Arg(0)
	cfg.Database.DSN = *dsn
	cfg.Ingest.ProfilePath = *profile
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		return constants.ExitUsage
	}

	// stdout carries results only
	logger := common.NewLogger(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		printError("%v\n", err)
		return constants.ExitFailures
	}
	defer a.Close()

	start := time.Now()
	switch {
	case *dryRun:
		err = a.DryRunJSON(ctx, path, os.Stdout)
	case *asJSON:
		err = a.IngestJSON(ctx, path, os.Stdout)
	default:
		var res core.Result
		res, err = a.Processor.IngestFile(ctx, path)
		if err == nil {
			fmt.Printf("%s: %s (report %d, %d rows, %d pages)\n", constants.OutcomeOK, path, res.ReportID, res.Rows, res.Pages)
		}
	}
	if err != nil {
		logger.Error("ingest failed",
			"path", path,
			"code", common.StatusCode(err).String(),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		// the last stderr line is the failure detail an isolating parent reports
		printError("%v\n", err)
	}
	return app.ExitCode(err)
}
