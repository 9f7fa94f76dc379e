package history

import (
	"testing"

	"github.com/deixis/vouch/internal/report"
)

func TestMarkGood(t *testing.T) {
	h := &ToolHistory{}
	h.MarkGood("Shorebird Engine • revision abc123")
	if !h.IsKnownGood("Shorebird Engine • revision abc123") {
		t.Error("version not marked good")
	}

	// Duplicate marks are ignored.
	h.MarkGood("Shorebird Engine • revision abc123")
	if len(h.GoodVersions) != 1 {
		t.Errorf("len(GoodVersions) = %d, want 1", len(h.GoodVersions))
	}
}

func TestMarkBad_NeverDemotesGood(t *testing.T) {
	h := &ToolHistory{}
	h.MarkGood("v1.0")
	h.MarkBad("v1.0")
	if h.IsKnownBad("v1.0") {
		t.Error("known good version was demoted to bad")
	}
}

func TestMarkGood_NeverPromotesBad(t *testing.T) {
	h := &ToolHistory{}
	h.MarkBad("v0.9")
	h.MarkGood("v0.9")
	if h.IsKnownGood("v0.9") {
		t.Error("known bad version was promoted to good")
	}
}

func TestMark_EmptyVersionIgnored(t *testing.T) {
	h := &ToolHistory{}
	h.MarkGood("")
	h.MarkBad("")
	if len(h.GoodVersions) != 0 || len(h.BadVersions) != 0 {
		t.Error("empty versions should not be recorded")
	}
}

func TestVersionOf(t *testing.T) {
	if got := versionOf("Shorebird Engine • revision abc123", "ignored"); got != "Shorebird Engine • revision abc123" {
		t.Errorf("versionOf = %q, want the version line", got)
	}
	if got := versionOf("", "\n  unknown command  \nmore\n"); got != "unknown command" {
		t.Errorf("versionOf = %q, want first non-empty output line", got)
	}
	if got := versionOf("", "\n\n"); got != "" {
		t.Errorf("versionOf = %q, want empty", got)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	state, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(state.Tools) != 0 {
		t.Errorf("len(Tools) = %d, want 0", len(state.Tools))
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := &Store{Dir: t.TempDir()}

	state := NewState()
	h := state.Tool("shorebird")
	h.MarkGood("Shorebird Engine • revision abc123")
	h.LastSeen = "Shorebird Engine • revision abc123"
	h.LastStatus = report.StatusVerified

	if err := s.Save(state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	gh := got.Tools["shorebird"]
	if gh == nil {
		t.Fatal("shorebird history missing after round trip")
	}
	if !gh.IsKnownGood("Shorebird Engine • revision abc123") {
		t.Error("good version lost in round trip")
	}
	if gh.LastStatus != report.StatusVerified {
		t.Errorf("LastStatus = %q, want verified", gh.LastStatus)
	}
}

func TestStore_Record(t *testing.T) {
	s := &Store{Dir: t.TempDir()}

	rr := &report.RunResult{
		ID:   "run-1",
		Kind: report.Suite,
		Checks: []report.CheckRecord{
			{Tool: "shorebird", Status: report.StatusVerified, VersionLine: "Shorebird Engine • revision abc123"},
			{Tool: "flutter", Status: report.StatusMarkerMissing, Output: "unknown command\n"},
			{Tool: "dart", Status: report.StatusSkipped},
		},
	}

	state, err := s.Record(rr)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	sb := state.Tools["shorebird"]
	if sb == nil || !sb.IsKnownGood("Shorebird Engine • revision abc123") {
		t.Errorf("shorebird history = %+v, want known good version", sb)
	}
	fl := state.Tools["flutter"]
	if fl == nil || !fl.IsKnownBad("unknown command") {
		t.Errorf("flutter history = %+v, want known bad version", fl)
	}
	if fl.LastStatus != report.StatusMarkerMissing {
		t.Errorf("flutter LastStatus = %q, want marker-missing", fl.LastStatus)
	}
	if _, ok := state.Tools["dart"]; ok {
		t.Error("skipped check should not create history")
	}

	// Persisted.
	reloaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reloaded.Tools["shorebird"] == nil {
		t.Error("recorded state not persisted")
	}
}

func TestStore_RecordAccumulates(t *testing.T) {
	s := &Store{Dir: t.TempDir()}

	first := &report.RunResult{ID: "a", Kind: report.Verify, Checks: []report.CheckRecord{
		{Tool: "shorebird", Status: report.StatusVerified, VersionLine: "rev abc"},
	}}
	second := &report.RunResult{ID: "b", Kind: report.Verify, Checks: []report.CheckRecord{
		{Tool: "shorebird", Status: report.StatusVerified, VersionLine: "rev def"},
	}}

	if _, err := s.Record(first); err != nil {
		t.Fatal(err)
	}
	state, err := s.Record(second)
	if err != nil {
		t.Fatal(err)
	}

	h := state.Tools["shorebird"]
	if !h.IsKnownGood("rev abc") || !h.IsKnownGood("rev def") {
		t.Errorf("history = %+v, want both revisions known good", h)
	}
	if h.LastSeen != "rev def" {
		t.Errorf("LastSeen = %q, want rev def", h.LastSeen)
	}
}
