package ingest

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/ryness-reports/constants"
	"github.com/joseph-ayodele/ryness-reports/internal/common"
)

// Batch ingests a list of documents with bounded parallelism. Every document
// runs under its own timeout and ends as OK, TIMEOUT or FAIL; a failure never
// stops the rest of the batch.
type Batch struct {
	ingester FileIngester
	logger   *slog.Logger
	workers  int
	timeout  time.Duration
}

func NewBatch(ingester FileIngester, logger *slog.Logger, workers int, timeout time.Duration) *Batch {
	if logger == nil {
		logger = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}
	return &Batch{ingester: ingester, logger: logger, workers: workers, timeout: timeout}
}

// Run ingests paths and returns their results in input order. onResult, when
// set, is called once per document as soon as it finishes; calls are
// serialized. Run returns ctx.Err() if the batch was interrupted, in which
// case documents that never started have no result.
func (b *Batch) Run(ctx context.Context, paths []string, onResult func(FileResult)) ([]FileResult, DirStats, error) {
	runID := uuid.NewString()
	ctx = common.WithRunID(ctx, runID)
	logger := common.LoggerWith(ctx, b.logger)
	logger.Info("batch started", "documents", len(paths), "workers", b.workers, "timeout", b.timeout)

	results := make([]FileResult, len(paths))
	started := make([]bool, len(paths))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res := b.one(gctx, path)

			mu.Lock()
			defer mu.Unlock()
			results[i] = res
			started[i] = true
			if onResult != nil {
				onResult(res)
			}
			return nil
		})
	}
	_ = g.Wait()

	stats := DirStats{Matched: uint32(len(paths))}
	out := make([]FileResult, 0, len(paths))
	for i, res := range results {
		if !started[i] {
			continue
		}
		stats.Scanned++
		switch res.Outcome {
		case constants.OutcomeOK:
			stats.Succeeded++
		case constants.OutcomeTimeout:
			stats.TimedOut++
		default:
			stats.Failed++
		}
		out = append(out, res)
	}

	logger.Info("batch finished", "succeeded", stats.Succeeded, "timed_out", stats.TimedOut, "failed", stats.Failed)
	if err := ctx.Err(); err != nil {
		return out, stats, err
	}
	return out, stats, nil
}

func (b *Batch) one(ctx context.Context, path string) FileResult {
	start := time.Now()
	cancel := context.CancelFunc(func() {})
	if b.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
	}
	defer cancel()

	res, err := b.ingester.IngestFile(ctx, path)
	out := FileResult{Path: path, ReportID: res.ReportID, Duration: time.Since(start)}
	switch {
	case err == nil:
		out.Outcome = constants.OutcomeOK
	case common.IsTimeout(err):
		out.Outcome = constants.OutcomeTimeout
		out.Detail = "exceeded " + b.timeout.String()
	default:
		out.Outcome = constants.OutcomeFailed
		out.Detail = strings.TrimSpace(err.Error())
		if out.Detail == "" {
			out.Detail = "unknown error"
		}
	}
	if err != nil {
		common.LoggerWith(ctx, b.logger).Warn("document not ingested",
			"path", path,
			"outcome", out.Outcome,
			"code", common.StatusCode(err).String(),
			"error", err,
		)
	}
	return out
}
