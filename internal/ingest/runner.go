package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/joseph-ayodele/ryness-reports/internal/core"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with exec.CommandContext, so the child is killed
// when ctx ends.
type ExecRunner struct {
	Logger *slog.Logger
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)

	if err != nil {
		logger.Error("exec failed",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", dur.Milliseconds(),
			"error", err,
			"stderr", truncate(errb.String(), 8<<10), // cap at 8KB
		)
	} else {
		logger.Debug("exec ok",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", dur.Milliseconds(),
			"stdout_bytes", out.Len(),
			"stderr_bytes", errb.Len(),
		)
	}

	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}

// SubprocessIngester ingests each document in a child process running the
// single-document command. The child prints its core.Result as JSON on
// stdout; a deadline kills the child, and its open transaction dies with it.
type SubprocessIngester struct {
	runner  Runner
	command string
	args    []string
}

// NewSubprocessIngester runs command with args followed by the document path.
func NewSubprocessIngester(runner Runner, command string, args ...string) *SubprocessIngester {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &SubprocessIngester{runner: runner, command: command, args: args}
}

func (s *SubprocessIngester) IngestFile(ctx context.Context, path string) (core.Result, error) {
	args := append(append([]string{}, s.args...), path)
	stdout, stderr, err := s.runner.Run(ctx, s.command, args...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return core.Result{Path: path}, fmt.Errorf("%s: %w", path, ctxErr)
	}
	if err != nil {
		detail := lastLine(stderr)
		if detail == "" {
			detail = err.Error()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return core.Result{Path: path}, &ChildError{Detail: detail, ExitCode: exitErr.ExitCode(), Err: err}
		}
		return core.Result{Path: path}, fmt.Errorf("run %s: %w", s.command, err)
	}

	var res core.Result
	if err := json.Unmarshal(bytes.TrimSpace(stdout), &res); err != nil {
		return core.Result{Path: path}, fmt.Errorf("decode child result: %w", err)
	}
	return res, nil
}

// ChildError reports a child that exited non-zero. Detail is the last line
// the child wrote to stderr.
type ChildError struct {
	Detail   string
	ExitCode int
	Err      error
}

func (e *ChildError) Error() string { return e.Detail }

func (e *ChildError) Unwrap() error { return e.Err }

// lastLine returns the last non-blank line of out.
func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
