package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/ryness-reports/internal/common"
	"github.com/joseph-ayodele/ryness-reports/internal/core"
)

// Job is one document waiting to be ingested.
type Job struct {
	Path        string
	SubmittedAt time.Time
	RunID       string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// FileIngester is the part of core.Processor the queue drives.
type FileIngester interface {
	IngestFile(ctx context.Context, path string) (core.Result, error)
}

// ProcessorQueue ingests enqueued documents on a fixed pool of workers, each
// document under its own timeout.
type ProcessorQueue struct {
	proc    FileIngester
	logger  *slog.Logger
	workers int
	timeout time.Duration
	onDone  func(Job, core.Result, error)

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu      sync.Mutex
	closed  bool
	done    chan struct{}
	senders sync.WaitGroup
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

// WithProcessTimeout sets the per-document timeout; zero disables it.
func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d >= 0 {
			q.timeout = d
		}
	}
}

// WithCompletion registers a callback run by the worker after each job.
func WithCompletion(fn func(Job, core.Result, error)) Option {
	return func(q *ProcessorQueue) {
		q.onDone = fn
	}
}

func NewProcessorQueue(proc FileIngester, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		proc:    proc,
		logger:  logger,
		workers: 1,
		timeout: 180 * time.Second,
		ch:      make(chan Job, 256),
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					q.process(workerID, job)
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) process(workerID int, job Job) {
	ctx := common.WithRunID(context.Background(), job.RunID)
	cancel := context.CancelFunc(func() {})
	if q.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
	}
	res, err := q.proc.IngestFile(ctx, job.Path)
	cancel()

	switch {
	case err == nil:
		q.logger.Info("processed file successfully", "worker_id", workerID, "path", job.Path, "report_id", res.ReportID)
	case common.IsTimeout(err):
		q.logger.Error("processing timed out", "worker_id", workerID, "path", job.Path, "timeout", q.timeout)
	default:
		q.logger.Error("processing failed", "worker_id", workerID, "path", job.Path, "code", common.Code(err), "error", err)
	}
	if q.onDone != nil {
		q.onDone(job, res, err)
	}
}

// Enqueue hands job to the workers. On a full queue it blocks until there is
// room or ctx is done. A sender still blocked at Shutdown gets an error.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return errQueueClosed()
	}
	q.senders.Add(1)
	q.mu.Unlock()
	defer q.senders.Done()

	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	select {
	case q.ch <- job:
		q.logger.Info("queued file for processing", "path", job.Path)
		return nil
	default:
	}

	q.logger.Warn("queue full, applying backpressure", "path", job.Path)
	select {
	case q.ch <- job:
		q.logger.Info("queued file for processing", "path", job.Path)
		return nil
	case <-ctx.Done():
		q.logger.Warn("enqueue abandoned", "path", job.Path, "error", ctx.Err())
		return ctx.Err()
	case <-q.done:
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return errQueueClosed()
	}
}

func errQueueClosed() error {
	return common.NewAppError(common.CodeInvalidInput, "queue is shut down", common.ErrInvalidInput)
}

// Shutdown stops accepting jobs and waits for the workers to drain what was
// already queued.
func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.done)
	q.mu.Unlock()

	// ch is closed only after every in-flight sender has returned
	q.senders.Wait()
	close(q.ch)

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
