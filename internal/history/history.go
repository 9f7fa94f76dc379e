// Package history persists per-tool verification history across runs:
// which version lines have verified at least once, which have failed,
// and what was last observed. State lives in a state.json file guarded
// by a file lock, so concurrent vouch processes cannot corrupt it.
package history

import (
	"strings"
	"time"
)

// ToolHistory holds the accumulated verification record for one tool.
type ToolHistory struct {
	// Version lines that verified at least once. A version on this list
	// is never demoted by a later failed report.
	GoodVersions []string `json:"good_versions,omitempty"`
	// Version lines that failed verification. Never promoted to good.
	BadVersions []string `json:"bad_versions,omitempty"`

	LastSeen    string    `json:"last_seen,omitempty"` // most recent version line observed
	LastStatus  string    `json:"last_status,omitempty"`
	LastChecked time.Time `json:"last_checked,omitempty"`
}

// State maps tool names to their histories.
type State struct {
	Tools map[string]*ToolHistory `json:"tools"`
}

// NewState returns an empty history state.
func NewState() *State {
	return &State{Tools: make(map[string]*ToolHistory)}
}

// Tool returns the history for a tool, creating it on first use.
func (s *State) Tool(name string) *ToolHistory {
	if s.Tools == nil {
		s.Tools = make(map[string]*ToolHistory)
	}
	h, ok := s.Tools[name]
	if !ok {
		h = &ToolHistory{}
		s.Tools[name] = h
	}
	return h
}

// IsKnownGood reports whether the version verified at least once before.
func (h *ToolHistory) IsKnownGood(version string) bool {
	return contains(h.GoodVersions, version)
}

// IsKnownBad reports whether the version failed verification before.
func (h *ToolHistory) IsKnownBad(version string) bool {
	return contains(h.BadVersions, version)
}

// MarkGood records a verified version. A version already on the bad list
// stays there — conflicting reports never rewrite history.
func (h *ToolHistory) MarkGood(version string) {
	if version == "" || h.IsKnownBad(version) || h.IsKnownGood(version) {
		return
	}
	h.GoodVersions = append(h.GoodVersions, version)
}

// MarkBad records a failed version, unless it is already known good.
func (h *ToolHistory) MarkBad(version string) {
	if version == "" || h.IsKnownGood(version) || h.IsKnownBad(version) {
		return
	}
	h.BadVersions = append(h.BadVersions, version)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// versionOf derives the version identity for history bookkeeping:
// the marker-bearing line when the check verified, else the first
// non-empty output line.
func versionOf(versionLine, output string) string {
	if versionLine != "" {
		return versionLine
	}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
