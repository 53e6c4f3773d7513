package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joseph-ayodele/ryness-reports/constants"
	"github.com/joseph-ayodele/ryness-reports/internal/app"
	"github.com/joseph-ayodele/ryness-reports/internal/common"
	"github.com/joseph-ayodele/ryness-reports/internal/ingest"
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

	// Parse CLI flags
	var (
		dir      = flag.String("dir", "", "directory of report PDFs (required, searched recursively)")
		dsn      = flag.String("db", cfg.Database.DSN, "SQLite file or postgres:// URL")
		profile  = flag.String("profile", cfg.Ingest.ProfilePath, "layout profile JSON (optional)")
		timeout  = flag.Duration("timeout", cfg.Ingest.Timeout, "per-document timeout (0 disables)")
		workers  = flag.Int("workers", cfg.Ingest.Workers, "documents processed in parallel")
		isolate  = flag.Bool("isolate", false, "run every document in its own child process")
		rebuild  = flag.Bool("rebuild", false, "start from an empty SQLite store")
		noBackup = flag.Bool("no-backup", false, "with -rebuild, do not keep a copy of the old store")
		child    = flag.String("child", "", "internal: ingest one document and print its result as JSON")
	)
	flag.Parse()

	cfg.Database.DSN = *dsn
	cfg.Ingest.ProfilePath = *profile
	cfg.Ingest.Workers = *workers
	cfg.Ingest.Timeout = *timeout
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		return constants.ExitUsage
	}

	logger := common.NewLogger(os.Stderr, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *child != "" {
		return runChild(ctx, cfg, *child)
	}

	if *dir == "" {
		printError("Error: -dir is required\n")
		flag.Usage()
		return constants.ExitUsage
	}
	if info, err := os.Stat(*dir); err != nil || !info.IsDir() {
		printError("Error: -dir %q is not a directory\n", *dir)
		return constants.ExitUsage
	}

	if *rebuild {
		if cfg.Database.IsPostgres() {
			printError("Error: -rebuild only applies to a SQLite store\n")
			return constants.ExitUsage
		}
		backup, err := rebuildStore(sqlitePath(cfg.Database.DSN), *noBackup, time.Now())
		if err != nil {
			printError("Error: %v\n", err)
			return constants.ExitFailures
		}
		if backup != "" {
			fmt.Printf("Backed up %s to %s\n", cfg.Database.DSN, backup)
		}
		logger.Info("store reset", "db", cfg.Database.DSN, "backup", backup)
	}

	paths, found, err := ingest.Discover(*dir, true)
	if err != nil {
		printError("Error: %v\n", err)
		return constants.ExitUsage
	}
	logger.Info("discovered reports", "dir", *dir, "scanned", found.Scanned, "matched", found.Matched)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		printError("Error: %v\n", err)
		return constants.ExitFailures
	}
	defer a.Close()

	var ingester ingest.FileIngester = a.Processor
	if *isolate {
		exe, err := os.Executable()
		if err != nil {
			printError("Error: locate executable: %v\n", err)
			return constants.ExitFailures
		}
		ingester = ingest.NewSubprocessIngester(ingest.ExecRunner{Logger: logger}, exe,
			"-db", cfg.Database.DSN, "-profile", cfg.Ingest.ProfilePath, "-child")
	}

	batch := ingest.NewBatch(ingester, logger, cfg.Ingest.Workers, cfg.Ingest.Timeout)
	_, stats, err := batch.Run(ctx, paths, func(r ingest.FileResult) {
		if r.Outcome == constants.OutcomeOK {
			fmt.Println(r.StatusLine())
			return
		}
		printError("%s\n", r.StatusLine())
	})
	if errors.Is(err, context.Canceled) {
		printError("Interrupted after %d of %d documents.\n", stats.Scanned, len(paths))
		return constants.ExitInterrupted
	}

	if n := stats.Failures(); n > 0 {
		fmt.Printf("Completed with %d failures.\n", n)
		return constants.ExitFailures
	}
	fmt.Println("Completed successfully.")
	return constants.ExitOK
}

// runChild is the single-document mode an isolated batch re-executes.
func runChild(ctx context.Context, cfg *common.Config, path string) int {
	logger := common.NewLogger(os.Stderr, cfg.LogLevel)
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		printError("%v\n", err)
		return constants.ExitFailures
	}
	defer a.Close()

	if err := a.IngestJSON(ctx, path, os.Stdout); err != nil {
		logger.Error("ingest failed", "path", path, "code", common.StatusCode(err).String(), "error", err)
		printError("%v\n", err)
		return app.ExitCode(err)
	}
	return constants.ExitOK
}
