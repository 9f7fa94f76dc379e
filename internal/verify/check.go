package verify

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/deixis/vouch/internal/report"
	"github.com/google/uuid"
)

// ErrNoMarker indicates a check without an expected marker substring.
var ErrNoMarker = errors.New("verify: marker must not be empty")

// Verify runs a single installation check: invoke the executable with
// its version-query args and require the marker in the combined output.
// A failing check is not an error — the outcome is in the RunResult.
func (e *Engine) Verify(ctx context.Context, chk Check) (*report.RunResult, error) {
	if chk.Marker == "" {
		return nil, ErrNoMarker
	}

	runID := uuid.New().String()
	rec := e.runCheck(ctx, chk)

	return &report.RunResult{
		ID:     runID,
		Kind:   report.Verify,
		Checks: []report.CheckRecord{rec},
	}, nil
}

// runCheck performs one invocation and classifies the outcome. The three
// failure modes are kept distinct: the target could not be run at all,
// the invocation timed out, or the target ran but its output lacked the
// marker.
func (e *Engine) runCheck(ctx context.Context, chk Check) report.CheckRecord {
	args := e.argsFor(chk)
	timeout := e.timeoutFor(chk)

	tool := chk.Tool
	if tool == "" {
		tool = filepath.Base(chk.Executable)
	}

	rec := report.CheckRecord{
		Tool:       tool,
		Executable: chk.Executable,
		Args:       args,
		Marker:     chk.Marker,
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	argv := append([]string{chk.Executable}, args...)
	res, err := e.Runner.Run(ctx, argv, e.Dir)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			rec.Status = report.StatusTimeout
			rec.Detail = fmt.Sprintf("%s did not finish within %s", chk.Executable, timeout)
		} else {
			rec.Status = report.StatusNotRunnable
			rec.Detail = fmt.Sprintf("%s could not be run: %v", chk.Executable, err)
		}
		return rec
	}

	rec.ExitCode = res.ExitCode
	rec.DurationMS = res.Duration.Milliseconds()
	rec.Truncated = res.Truncated
	rec.Output = string(res.CombinedOutput())

	if res.TimedOut {
		rec.Status = report.StatusTimeout
		rec.Detail = fmt.Sprintf("%s did not finish within %s", chk.Executable, timeout)
		return rec
	}

	// Marker presence decides the outcome; the exit code is recorded but
	// does not override it, since some tools report versions with a
	// non-zero exit.
	if strings.Contains(rec.Output, chk.Marker) {
		rec.Status = report.StatusVerified
		rec.VersionLine = markerLine(rec.Output, chk.Marker)
		return rec
	}

	rec.Status = report.StatusMarkerMissing
	rec.Detail = fmt.Sprintf("%s ran (exit %d) but its output does not contain %q", chk.Executable, res.ExitCode, chk.Marker)
	return rec
}
