package verify

import (
	"testing"
	"time"

	"github.com/deixis/vouch/internal/manifest"
)

func TestTimeoutFor(t *testing.T) {
	e := &Engine{Manifest: &manifest.Manifest{RawTimeout: "10s"}}

	if got := e.timeoutFor(Check{}); got != 10*time.Second {
		t.Errorf("timeoutFor(default) = %v, want 10s", got)
	}
	if got := e.timeoutFor(Check{Timeout: time.Second}); got != time.Second {
		t.Errorf("timeoutFor(override) = %v, want 1s", got)
	}

	bare := &Engine{}
	if got := bare.timeoutFor(Check{}); got != manifest.DefaultTimeout {
		t.Errorf("timeoutFor(nil manifest) = %v, want default", got)
	}
}

func TestArgsFor(t *testing.T) {
	e := &Engine{Manifest: &manifest.Manifest{RawArgs: []string{"version"}}}

	if got := e.argsFor(Check{}); len(got) != 1 || got[0] != "version" {
		t.Errorf("argsFor(default) = %v, want [version]", got)
	}
	if got := e.argsFor(Check{Args: []string{"-V"}}); len(got) != 1 || got[0] != "-V" {
		t.Errorf("argsFor(override) = %v, want [-V]", got)
	}

	bare := &Engine{}
	if got := bare.argsFor(Check{}); len(got) != 1 || got[0] != "--version" {
		t.Errorf("argsFor(nil manifest) = %v, want [--version]", got)
	}
}

func TestMarkerLine(t *testing.T) {
	out := "preamble\nShorebird Engine • revision abc123\ntrailer\n"
	if got := markerLine(out, "Shorebird Engine"); got != "Shorebird Engine • revision abc123" {
		t.Errorf("markerLine = %q", got)
	}
	if got := markerLine(out, "absent"); got != "" {
		t.Errorf("markerLine(absent) = %q, want empty", got)
	}
}

func TestFirstLine(t *testing.T) {
	if got := FirstLine("\n\n  hello  \nworld\n"); got != "hello" {
		t.Errorf("FirstLine = %q, want hello", got)
	}
	if got := FirstLine("\n \n"); got != "" {
		t.Errorf("FirstLine(blank) = %q, want empty", got)
	}
}

func TestAvailable(t *testing.T) {
	if !Available("sh") {
		t.Error("Available(sh) = false, want true")
	}
	if Available("nonexistent-binary-xyz-123") {
		t.Error("Available(nonexistent) = true, want false")
	}
	// Path-like names are deferred to the invocation.
	if !Available("./relative/tool") {
		t.Error("Available(path-like) = false, want true")
	}
}
