package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/ryness-reports/internal/app"
	"github.com/joseph-ayodele/ryness-reports/internal/common"
	"github.com/joseph-ayodele/ryness-reports/internal/core"
	"github.com/joseph-ayodele/ryness-reports/internal/core/async"
	"github.com/joseph-ayodele/ryness-reports/internal/ingest"
)

func main() {
	cfg := common.LoadConfig()

	var (
		dirs     = flag.String("dirs", os.Getenv("WATCH_DIRS"), "comma-separated folders to watch")
		dsn      = flag.String("db", cfg.Database.DSN, "SQLite file or postgres:// URL")
		scan     = flag.Bool("scan", false, "ingest PDFs already present at startup")
		queueCap = flag.Int("queue", 64, "pending documents before Enqueue blocks")
	)
	flag.Parse()
	cfg.Database.DSN = *dsn

	var roots []string
	for _, d := range strings.Split(*dirs, ",") {
		if d = strings.TrimSpace(d); d != "" {
			roots = append(roots, d)
		}
	}
	if len(roots) == 0 {
		fmt.Fprintln(os.Stderr, "Error: -dirs (or WATCH_DIRS) is required")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Logger
	logger := common.NewLogger(os.Stdout, cfg.LogLevel)

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.DB.HealthCheck(ctx, cfg.Database.DialTimeout); err != nil {
		logger.Error("DB health failed", "error", err)
		os.Exit(1)
	}
	logger.Info("DB health OK", "dialect", a.DB.Dialect())

	queue := async.NewProcessorQueue(a.Processor, logger,
		async.WithWorkers(cfg.Ingest.Workers),
		async.WithQueueSize(*queueCap),
		async.WithProcessTimeout(cfg.Ingest.Timeout),
		async.WithCompletion(func(job async.Job, res core.Result, err error) {
			if err != nil {
				logger.Warn("document not ingested", "path", job.Path, "run_id", job.RunID,
					"code", common.StatusCode(err).String())
				return
			}
			logger.Info("document ingested", "path", job.Path, "run_id", job.RunID,
				"report_id", res.ReportID, "rows", res.Rows, "wait_ms", time.Since(job.SubmittedAt).Milliseconds())
		}),
	)

	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       roots,
		InitialScan: *scan,
		SkipHidden:  true,
		Debounce:    cfg.Watch.Debounce,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}
	logger.Info("watching for reports", "roots", roots, "workers", cfg.Ingest.Workers)

	runID := uuid.NewString()
loop:
	for {
		select {
		case path, ok := <-events:
			if !ok {
				break loop
			}
			if err := queue.Enqueue(ctx, async.Job{Path: path, SubmittedAt: time.Now(), RunID: runID}); err != nil {
				logger.Error("failed to enqueue", "path", path, "error", err)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watch error", "error", err)
		case <-ctx.Done():
			break loop
		}
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Ingest.Timeout+5*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)
	fmt.Println("stopped.")
}
