package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deixis/vouch/internal/report"
	"github.com/deixis/vouch/internal/verify"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type verifyParams struct {
	Executable string   `json:"executable" jsonschema:"path to the executable under test, or a bare name resolved via PATH"`
	Marker     string   `json:"marker" jsonschema:"expected substring of the version output (e.g. 'Shorebird Engine • revision')"`
	Args       []string `json:"args,omitempty" jsonschema:"version-query arguments. Default: --version."`
	Timeout    string   `json:"timeout,omitempty" jsonschema:"invocation timeout as a Go duration (e.g. 30s). Default: the configured timeout."`
}

func (h *handler) verifyHandler(ctx context.Context, req *mcp.CallToolRequest, params verifyParams) (*mcp.CallToolResult, any, error) {
	if params.Executable == "" {
		return errorResult("executable is required")
	}
	if params.Marker == "" {
		return errorResult("marker is required")
	}

	chk := verify.Check{
		Executable: params.Executable,
		Args:       params.Args,
		Marker:     params.Marker,
	}
	if params.Timeout != "" {
		d, err := time.ParseDuration(params.Timeout)
		if err != nil {
			return errorResult(fmt.Sprintf("invalid timeout %q: %v", params.Timeout, err))
		}
		chk.Timeout = d
	}

	rr, err := h.engine.Verify(ctx, chk)
	if err != nil {
		return errorResult(fmt.Sprintf("verify failed: %v", err))
	}

	h.record(rr)
	return textResult(formatRun(rr))
}

type suiteParams struct{}

func (h *handler) suiteHandler(ctx context.Context, req *mcp.CallToolRequest, _ suiteParams) (*mcp.CallToolResult, any, error) {
	if h.engine.Manifest == nil || len(h.engine.Manifest.Tools) == 0 {
		return errorResult("no .vouch manifest found, or it lists no tools")
	}

	rr, err := h.engine.Suite(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("suite failed: %v", err))
	}

	h.record(rr)
	return textResult(formatRun(rr))
}

// record saves the run for vouch_inspect and folds it into the history
// state. Both are best-effort: a storage failure never fails the check.
func (h *handler) record(rr *report.RunResult) {
	_ = h.store.Save(rr)
	if h.history != nil {
		_, _ = h.history.Record(rr)
	}
}

func formatRun(rr *report.RunResult) string {
	var b strings.Builder

	if rr.Verified() {
		fmt.Fprintln(&b, "Status: VERIFIED")
	} else {
		fmt.Fprintln(&b, "Status: NOT VERIFIED")
	}
	fmt.Fprintf(&b, "Run: %s\n", rr.ID)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Checks:")
	for _, c := range rr.Checks {
		if c.Status == report.StatusVerified && c.VersionLine != "" {
			fmt.Fprintf(&b, "  %s: %s (%s)\n", c.Tool, c.Status, c.VersionLine)
		} else {
			fmt.Fprintf(&b, "  %s: %s\n", c.Tool, c.Status)
		}
	}
	fmt.Fprintln(&b)

	failed := rr.Failed()
	if len(failed) == 0 {
		fmt.Fprintln(&b, "All checks verified.")
		return b.String()
	}

	fmt.Fprintln(&b, "Failures:")
	for _, c := range failed {
		fmt.Fprintf(&b, "  %s — %s\n", c.Tool, c.Detail)
	}
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Inspect with vouch_inspect(run_id=%q, tool=\"<name>\").\n", rr.ID)

	return b.String()
}
