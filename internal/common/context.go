package common

import (
	"context"
	"log/slog"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRunID    contextKey = "run_id"
	ContextKeyIngestID contextKey = "ingest_id"
)

// WithRunID tags the context with the id of a batch or watch run.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ContextKeyRunID, runID)
}

// RunIDFromContext extracts the run ID from context
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyRunID).(string); ok {
		return id
	}
	return ""
}

// WithIngestID tags the context with the id of a single document ingest.
func WithIngestID(ctx context.Context, ingestID string) context.Context {
	return context.WithValue(ctx, ContextKeyIngestID, ingestID)
}

// IngestIDFromContext extracts the ingest ID from context
func IngestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyIngestID).(string); ok {
		return id
	}
	return ""
}

// LoggerWith returns logger annotated with the run and ingest ids on ctx.
func LoggerWith(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if id := RunIDFromContext(ctx); id != "" {
		logger = logger.With("run_id", id)
	}
	if id := IngestIDFromContext(ctx); id != "" {
		logger = logger.With("ingest_id", id)
	}
	return logger
}
