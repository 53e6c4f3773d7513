package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/joseph-ayodele/ryness-reports/constants"
)

// IngestJSON ingests one document and writes its result to w as a single
// JSON line. This is the child side of isolated batches.
func (a *App) IngestJSON(ctx context.Context, path string, w io.Writer) error {
	res, err := a.Processor.IngestFile(ctx, path)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(w).Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// DryRunJSON extracts one document and writes the assembled bundle to w
// without storing it.
func (a *App) DryRunJSON(ctx context.Context, path string, w io.Writer) error {
	bundle, err := a.Processor.Extract(ctx, path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bundle); err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	return nil
}

// ExitCode maps the error a command finished with to its exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return constants.ExitOK
	case errors.Is(err, context.Canceled):
		return constants.ExitInterrupted
	default:
		return constants.ExitFailures
	}
}
