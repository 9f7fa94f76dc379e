package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/deixis/vouch/internal/history"
	"github.com/deixis/vouch/internal/report"
)

func formatRunCLI(rr *report.RunResult, verbose bool) string {
	var b []byte
	w := func(format string, args ...any) {
		b = fmt.Appendf(b, format, args...)
	}

	if rr.Verified() {
		w("%s\n", color.GreenString("ok"))
	} else {
		w("%s\n", color.RedString("FAIL"))
	}
	w("\n")

	for _, c := range rr.Checks {
		w("  %-15s %s\n", c.Tool, statusCLI(c))
	}
	w("\n")

	failed := rr.Failed()
	if len(failed) > 0 {
		for _, c := range failed {
			if c.Detail != "" {
				w("  %s\n", c.Detail)
			}
		}
		w("\n")
	}

	if verbose {
		for _, c := range failed {
			if c.Output == "" {
				continue
			}
			w("%s output:\n", c.Tool)
			for _, line := range strings.Split(strings.TrimRight(c.Output, "\n"), "\n") {
				w("  %s\n", line)
			}
			if c.Truncated {
				w("  ... (output truncated)\n")
			}
			w("\n")
		}
		w("run %s\n", rr.ID)
	}

	return string(b)
}

func statusCLI(c report.CheckRecord) string {
	switch c.Status {
	case report.StatusVerified:
		s := color.GreenString("ok")
		if c.VersionLine != "" {
			s += "  " + c.VersionLine
		}
		return s
	case report.StatusMarkerMissing:
		return color.RedString("FAIL") + "  marker not found"
	case report.StatusNotRunnable:
		return color.RedString("FAIL") + "  not runnable"
	case report.StatusTimeout:
		return color.YellowString("timeout")
	case report.StatusSkipped:
		return "-"
	}
	return c.Status
}

func formatStateCLI(state *history.State) string {
	var b []byte
	w := func(format string, args ...any) {
		b = fmt.Appendf(b, format, args...)
	}

	if len(state.Tools) == 0 {
		w("No verification history recorded yet.\n")
		return string(b)
	}

	names := make([]string, 0, len(state.Tools))
	for name := range state.Tools {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		h := state.Tools[name]
		w("  %-15s %s", name, statusWord(h.LastStatus))
		if h.LastSeen != "" {
			w("  %s", h.LastSeen)
		}
		w("\n")
	}

	return string(b)
}

func formatHistoryCLI(name string, h *history.ToolHistory) string {
	var b []byte
	w := func(format string, args ...any) {
		b = fmt.Appendf(b, format, args...)
	}

	w("%s: %s\n", name, statusWord(h.LastStatus))
	if h.LastSeen != "" {
		w("  Last seen: %s\n", h.LastSeen)
	}
	if !h.LastChecked.IsZero() {
		w("  Last checked: %s\n", h.LastChecked.Format("2006-01-02 15:04:05 MST"))
	}

	if len(h.GoodVersions) > 0 {
		w("\n  Verified versions:\n")
		for _, v := range h.GoodVersions {
			w("    %s %s\n", color.GreenString("+"), v)
		}
	}
	if len(h.BadVersions) > 0 {
		w("\n  Failed versions:\n")
		for _, v := range h.BadVersions {
			w("    %s %s\n", color.RedString("-"), v)
		}
	}

	return string(b)
}

func statusWord(status string) string {
	switch status {
	case report.StatusVerified:
		return color.GreenString("ok")
	case "":
		return "never checked"
	default:
		return color.RedString(status)
	}
}
