// Package ingest discovers report files and drives them through the
// processor, one outcome per document.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/joseph-ayodele/ryness-reports/constants"
	"github.com/joseph-ayodele/ryness-reports/internal/core"
)

// FileIngester ingests one document. core.Processor and SubprocessIngester
// both satisfy it.
type FileIngester interface {
	IngestFile(ctx context.Context, path string) (core.Result, error)
}

// FileResult is the per-document outcome of a batch.
type FileResult struct {
	Path     string
	Outcome  constants.Outcome
	ReportID int64
	Detail   string
	Duration time.Duration
}

// StatusLine renders the result as "OK: <path>", "TIMEOUT: <path> (<detail>)"
// or "FAIL: <path> (<detail>)".
func (r FileResult) StatusLine() string {
	if r.Outcome == constants.OutcomeOK || r.Detail == "" {
		return fmt.Sprintf("%s: %s", r.Outcome, r.Path)
	}
	return fmt.Sprintf("%s: %s (%s)", r.Outcome, r.Path, r.Detail)
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned   uint32
	Matched   uint32
	Succeeded uint32
	TimedOut  uint32
	Failed    uint32
}

// Failures counts documents that did not end in OK.
func (s DirStats) Failures() uint32 {
	return s.TimedOut + s.Failed
}
