// Package verify implements the installation verification engine: it
// invokes target executables with a version-query argument and decides
// whether the expected marker substring is present in their output.
// It is consumed by both the MCP server and the CLI commands.
package verify

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/deixis/vouch/internal/manifest"
	"github.com/deixis/vouch/internal/runner"
)

// CommandRunner invokes a target executable.
// Implemented by runner.Runner.
type CommandRunner interface {
	Run(ctx context.Context, argv []string, dir string) (*runner.Result, error)
}

// Engine holds shared dependencies for all verification operations.
type Engine struct {
	Manifest *manifest.Manifest // may be nil when verifying ad hoc
	Runner   CommandRunner
	Dir      string // working directory for invocations
}

// Check describes a single verification: run Executable with Args and
// require Marker to appear in the combined output.
type Check struct {
	Tool       string        // display name; defaults to the executable's base name
	Executable string        // path or bare name resolved via PATH
	Args       []string      // version-query args; empty means the configured default
	Marker     string        // expected substring, must be non-empty
	Timeout    time.Duration // 0 means the configured default
}

// timeoutFor returns the effective invocation timeout for a check.
func (e *Engine) timeoutFor(chk Check) time.Duration {
	if chk.Timeout > 0 {
		return chk.Timeout
	}
	if e.Manifest != nil {
		return e.Manifest.Timeout()
	}
	return manifest.DefaultTimeout
}

// argsFor returns the effective version-query args for a check.
func (e *Engine) argsFor(chk Check) []string {
	if len(chk.Args) > 0 {
		return chk.Args
	}
	if e.Manifest != nil {
		return e.Manifest.VersionArgs()
	}
	return manifest.DefaultVersionArgs
}

// Available reports whether a bare executable name resolves via PATH.
// Path-like executables are checked by the invocation itself.
func Available(name string) bool {
	if strings.ContainsRune(name, '/') {
		return true
	}
	_, err := exec.LookPath(name)
	return err == nil
}

// markerLine returns the first output line containing the marker, trimmed.
func markerLine(out, marker string) string {
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, marker) {
			return strings.TrimSpace(line)
		}
	}
	return ""
}

// FirstLine returns the first non-empty line of s, trimmed.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
