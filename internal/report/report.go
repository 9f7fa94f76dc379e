// Package report provides structured persistence and retrieval of
// verification run results. Results are stored as typed structs and can
// be queried by tool name.
package report

import "fmt"

// Kind identifies the type of a run.
type Kind string

const (
	// Verify is a single-tool verification run.
	Verify Kind = "verify"
	// Suite is a manifest-driven run over all listed tools.
	Suite Kind = "suite"
)

// Check statuses. A run is verified only when every check is verified.
const (
	StatusVerified      = "verified"       // target ran, marker present
	StatusMarkerMissing = "marker-missing" // target ran, marker absent
	StatusNotRunnable   = "not-runnable"   // target could not be started
	StatusTimeout       = "timeout"        // invocation hit the timeout
	StatusSkipped       = "skipped"        // check did not run
)

// Store persists and retrieves run results.
type Store interface {
	Save(result *RunResult) error
	Load(runID string) (*RunResult, error)
}

// RunResult holds the structured outcome of a verification run.
type RunResult struct {
	ID     string        `json:"id"`
	Kind   Kind          `json:"kind"`
	Checks []CheckRecord `json:"checks,omitempty"`
}

// Expect returns an error if the run's Kind does not match want.
func (r *RunResult) Expect(want Kind) error {
	if r.Kind != want {
		return fmt.Errorf("run %s is a %s run, not a %s run", r.ID, r.Kind, want)
	}
	return nil
}

// Verified reports whether every check in the run succeeded.
func (r *RunResult) Verified() bool {
	for _, c := range r.Checks {
		if c.Status != StatusVerified {
			return false
		}
	}
	return true
}

// Failed returns the checks that did not verify.
func (r *RunResult) Failed() []CheckRecord {
	var out []CheckRecord
	for _, c := range r.Checks {
		if c.Status != StatusVerified {
			out = append(out, c)
		}
	}
	return out
}

// CheckRecord holds the outcome of verifying a single tool.
type CheckRecord struct {
	Tool        string   `json:"tool"`
	Executable  string   `json:"executable"`
	Args        []string `json:"args,omitempty"`
	Marker      string   `json:"marker"`
	Status      string   `json:"status"`
	VersionLine string   `json:"version_line,omitempty"` // output line that carried the marker
	ExitCode    int      `json:"exit_code"`
	DurationMS  int64    `json:"duration_ms"`
	Output      string   `json:"output,omitempty"` // combined output, possibly truncated
	Truncated   bool     `json:"truncated,omitempty"`
	Detail      string   `json:"detail,omitempty"` // failure detail (e.g. exec error)
}

// ByTool returns all check records for the named tool.
func ByTool(result *RunResult, tool string) []CheckRecord {
	var out []CheckRecord
	for _, c := range result.Checks {
		if c.Tool == tool {
			out = append(out, c)
		}
	}
	return out
}
