package runner

import "time"

// Result holds the output of a target invocation.
type Result struct {
	RunID     string        // unique identifier for this invocation
	ExitCode  int           // process exit code
	Stdout    []byte        // captured stdout (may be truncated)
	Stderr    []byte        // captured stderr (may be truncated)
	Truncated bool          // true if either stream exceeded the size cap
	Duration  time.Duration // wall-clock time of the invocation
	TimedOut  bool          // true if the invocation hit the configured timeout
}

// CombinedOutput returns stdout followed by stderr. Marker matching
// inspects this combined text, since version banners land on either
// stream depending on the tool.
func (r *Result) CombinedOutput() []byte {
	out := make([]byte, 0, len(r.Stdout)+len(r.Stderr))
	out = append(out, r.Stdout...)
	out = append(out, r.Stderr...)
	return out
}
