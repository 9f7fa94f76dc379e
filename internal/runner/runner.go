// Package runner provides safe invocation of target executables with
// timeouts and output size limits.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/google/uuid"
)

// Runner invokes target executables for verification.
type Runner struct {
	Timeout   time.Duration // per-invocation cap; 0 defers to the caller's context
	MaxOutput int           // bytes, per stream
}

// Run invokes a target executable. The first element of argv is the
// executable — an absolute path, a relative path, or a bare name resolved
// via PATH — and the rest are arguments. dir is the working directory;
// empty means the current directory.
//
// A non-zero exit from the target is not an error: it is reported in the
// Result. An error return means the target could not be run at all
// (missing binary, permission denied, or similar).
func (r *Runner) Run(ctx context.Context, argv []string, dir string) (*Result, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty argv")
	}

	maxOutput := r.MaxOutput

	// The caller may already carry a deadline (the verify engine sets
	// per-check timeouts); Timeout adds a cap when configured.
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	runID := uuid.New().String()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitWriter{buf: &stdout, limit: maxOutput}
	cmd.Stderr = &limitWriter{buf: &stderr, limit: maxOutput}

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	truncated := stdout.Len() >= maxOutput || stderr.Len() >= maxOutput
	timedOut := errors.Is(ctx.Err(), context.DeadlineExceeded)

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			// Binary not found, not executable, or other startup failure.
			return nil, fmt.Errorf("executing %s: %w", argv[0], runErr)
		}
	}

	return &Result{
		RunID:     runID,
		ExitCode:  exitCode,
		Stdout:    stdout.Bytes(),
		Stderr:    stderr.Bytes(),
		Truncated: truncated,
		Duration:  elapsed,
		TimedOut:  timedOut,
	}, nil
}

// limitWriter writes up to limit bytes to buf, then silently discards the rest.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil // discard
	}
	if len(p) > remaining {
		// Write only what fits, but report all bytes as consumed
		// to avoid short write errors from io.Copy.
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}
