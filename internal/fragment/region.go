package fragment

import (
	"errors"
	"strings"
)

// ErrNoFragment is returned when a file has no start marker line.
var ErrNoFragment = errors.New("no fragment found")

// Markers are the exact lines that open and close a fragment.
type Markers struct {
	Start string
	End   string
}

// isMarker reports whether line is marker, ignoring a CRLF line ending.
func isMarker(line, marker string) bool {
	return strings.TrimSuffix(line, "\r") == marker
}

// Filter returns the filtered view of text.
//
// Lines before the start marker are replaced with "" so the view keeps the
// original line numbering. Lines from the start marker through the first end
// marker that follows it are kept verbatim, and nothing after that end marker
// is returned. Without a start marker every line is blank. Markers also match
// lines ending in "\r\n"; the "\r" stays on the kept lines.
func Filter(text string, m Markers) []string {
	lines := strings.Split(text, "\n")
	view := make([]string, 0, len(lines))

	inside := false
	for _, ln := range lines {
		if !inside && isMarker(ln, m.Start) {
			inside = true
		}
		if !inside {
			view = append(view, "")
			continue
		}
		view = append(view, ln)
		if isMarker(ln, m.End) {
			break
		}
	}

	return view
}

// LeadingEmpty counts the blank entries at the head of lines.
func LeadingEmpty(lines []string) int {
	n := 0
	for _, ln := range lines {
		if ln != "" {
			break
		}
		n++
	}
	return n
}

// Module strips the leading padding from a filtered view, leaving the bare
// fragment text starting with the start marker.
func Module(view []string) []string {
	return view[LeadingEmpty(view):]
}

// HasFragment reports whether a filtered view holds a fragment.
func HasFragment(view []string) bool {
	return LeadingEmpty(view) < len(view)
}

// trimCR drops a trailing "\r" from every line of a view.
func trimCR(view []string) []string {
	out := make([]string, len(view))
	for i, ln := range view {
		out[i] = strings.TrimSuffix(ln, "\r")
	}
	return out
}
