package verify

import (
	"context"

	"github.com/deixis/vouch/internal/report"
	"github.com/google/uuid"
)

// Suite verifies every tool in the manifest. Checks are independent and
// order-insensitive, so a failing tool never stops the rest — the suite
// fails if any check fails. On context cancellation the remaining tools
// are recorded as skipped.
func (e *Engine) Suite(ctx context.Context) (*report.RunResult, error) {
	runID := uuid.New().String()
	rr := &report.RunResult{ID: runID, Kind: report.Suite}

	if e.Manifest == nil || len(e.Manifest.Tools) == 0 {
		return rr, nil
	}

	for _, tool := range e.Manifest.Tools {
		if ctx.Err() != nil {
			rr.Checks = append(rr.Checks, report.CheckRecord{
				Tool:       tool.Name,
				Executable: tool.Command(),
				Marker:     tool.Marker,
				Status:     report.StatusSkipped,
				Detail:     ctx.Err().Error(),
			})
			continue
		}

		chk := Check{
			Tool:       tool.Name,
			Executable: tool.Command(),
			Args:       tool.VersionArgs(e.Manifest),
			Marker:     tool.Marker,
			Timeout:    tool.Timeout(e.Manifest.Timeout()),
		}
		rr.Checks = append(rr.Checks, e.runCheck(ctx, chk))
	}

	return rr, nil
}
