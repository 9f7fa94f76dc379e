package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/deixis/vouch/internal/verify"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type toolsParams struct{}

func (h *handler) toolsHandler(ctx context.Context, req *mcp.CallToolRequest, _ toolsParams) (*mcp.CallToolResult, any, error) {
	m := h.engine.Manifest
	if m == nil || len(m.Tools) == 0 {
		return textResult("The .vouch manifest lists no tools.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Tools (%d):\n", len(m.Tools))
	for _, t := range m.Tools {
		cmd := t.Command()
		avail := "resolves"
		if !verify.Available(cmd) {
			avail = "not found on PATH"
		}
		fmt.Fprintf(&b, "  %s: %s %s (%s) — marker %q\n",
			t.Name, cmd, strings.Join(t.VersionArgs(m), " "), avail, t.Marker)
	}

	return textResult(b.String())
}
