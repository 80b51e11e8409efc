package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// truncate shortens a string to the given display width, adding an ellipsis
// if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	if ansi.StringWidth(value) <= limit {
		return value
	}
	if limit <= 3 {
		return ansi.Truncate(value, limit, "")
	}
	return ansi.Truncate(value, limit, "...")
}

// wrapLines word-wraps value to width and keeps at most maxLines lines. The
// last kept line gets an ellipsis when text was dropped.
func wrapLines(value string, width, maxLines int) []string {
	value = strings.Join(strings.Fields(value), " ")
	if value == "" || width <= 0 || maxLines <= 0 {
		return nil
	}
	lines := strings.Split(ansi.Wrap(value, width, ""), "\n")
	if len(lines) <= maxLines {
		return lines
	}
	lines = lines[:maxLines]
	last := strings.TrimRight(lines[maxLines-1], " ")
	if ansi.StringWidth(last)+3 > width {
		last = ansi.Truncate(last, width-3, "")
	}
	lines[maxLines-1] = last + "..."
	return lines
}
