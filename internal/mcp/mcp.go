// Package mcp provides the vouch MCP server, registering all tools
// and publishing model instructions.
package mcp

import (
	_ "embed"

	"github.com/deixis/vouch"
	"github.com/deixis/vouch/internal/history"
	"github.com/deixis/vouch/internal/manifest"
	"github.com/deixis/vouch/internal/report"
	"github.com/deixis/vouch/internal/runner"
	"github.com/deixis/vouch/internal/verify"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	engine  *verify.Engine
	store   report.Store
	history *history.Store // nil disables history recording
}

// NewServer creates an MCP server with all vouch tools registered.
func NewServer(m *manifest.Manifest, r *runner.Runner, store report.Store, hist *history.Store, dir string) *mcp.Server {
	h := &handler{
		engine: &verify.Engine{
			Manifest: m,
			Runner:   r,
			Dir:      dir,
		},
		store:   store,
		history: hist,
	}

	mcpOpts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "vouch", Version: vouch.Version}, mcpOpts)

	mcp.AddTool(s, &mcp.Tool{
		Name: "vouch_verify",
		Description: `Verify that an executable is correctly installed.

Invokes the executable with a version-query argument (default --version) and
requires the expected marker substring in its combined output. Exit status of
the target is recorded but the marker decides the outcome. Results are stored
for drill-down via vouch_inspect.`,
	}, h.verifyHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "vouch_suite",
		Description: `Verify every tool listed in the .vouch manifest.

Checks are independent and do not stop on failure. Use this to confirm a full
toolchain installation. Results are stored for drill-down via vouch_inspect.`,
	}, h.suiteHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "vouch_inspect",
		Description: `Drill into the results of a vouch_verify or vouch_suite run.

Use the run_id from the tool output and a tool name to see the full captured
output and failure detail for that check.`,
	}, h.inspectHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "vouch_tools",
		Description: `List the tools in the .vouch manifest and whether each
executable currently resolves on this host.`,
	}, h.toolsHandler)

	return s
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
