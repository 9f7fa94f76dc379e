package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/deixis/vouch/internal/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type inspectParams struct {
	RunID string `json:"run_id" jsonschema:"the run ID from a vouch_verify or vouch_suite result"`
	Tool  string `json:"tool" jsonschema:"the tool name from the run's check list"`
}

func (h *handler) inspectHandler(ctx context.Context, req *mcp.CallToolRequest, params inspectParams) (*mcp.CallToolResult, any, error) {
	if params.RunID == "" {
		return errorResult("run_id is required")
	}
	if params.Tool == "" {
		return errorResult("tool is required")
	}

	result, err := h.store.Load(params.RunID)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load run %s: %v", params.RunID, err))
	}

	records := report.ByTool(result, params.Tool)
	if len(records) == 0 {
		return textResult(fmt.Sprintf("No checks found for %s in run %s (%s).", params.Tool, params.RunID, result.Kind))
	}

	return textResult(formatInspectOutput(params.RunID, result.Kind, records))
}

func formatInspectOutput(runID string, kind report.Kind, records []report.CheckRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run: %s (%s)\n", runID, kind)
	fmt.Fprintln(&b)

	for _, c := range records {
		fmt.Fprintf(&b, "%s — %s\n", c.Tool, c.Status)
		fmt.Fprintf(&b, "  Executable: %s\n", c.Executable)
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "  Args: %s\n", strings.Join(c.Args, " "))
		}
		fmt.Fprintf(&b, "  Marker: %q\n", c.Marker)
		if c.VersionLine != "" {
			fmt.Fprintf(&b, "  Version: %s\n", c.VersionLine)
		}
		fmt.Fprintf(&b, "  Exit: %d (%dms)\n", c.ExitCode, c.DurationMS)
		if c.Detail != "" {
			fmt.Fprintf(&b, "  Detail: %s\n", c.Detail)
		}

		if c.Output != "" {
			fmt.Fprintln(&b)
			fmt.Fprintln(&b, "Output:")
			for _, line := range strings.Split(strings.TrimRight(c.Output, "\n"), "\n") {
				fmt.Fprintf(&b, "    %s\n", line)
			}
			if c.Truncated {
				fmt.Fprintln(&b, "    ... (output truncated)")
			}
		}
	}

	return b.String()
}
