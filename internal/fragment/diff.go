package fragment

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/klauern/syncinclude/internal/logging"
)

// contextLines is the number of unchanged lines shown around each change.
const contextLines = 3

// headerLines is the number of file header lines ("---" and "+++") a unified
// diff starts with.
const headerLines = 2

var (
	// skipHeader only matches headers whose ranges both carry a count.
	skipHeader = regexp.MustCompile(`^@@\s-([0-9]+),[0-9]+\s\+[0-9]+,[0-9]+\s@@$`)

	// rangeHeader matches any unified hunk header.
	rangeHeader = regexp.MustCompile(`^@@ -([0-9]+)(?:,([0-9]+))? \+([0-9]+)(?:,([0-9]+))? @@`)
)

// Result is a unified diff between the fragments of two files.
type Result struct {
	// FromPath and ToPath are the files that were compared.
	FromPath string
	ToPath   string

	// Lines holds the diff output, without line terminators.
	Lines []string
}

// HasChanges reports whether the diff shows anything beyond its file headers.
func (r *Result) HasChanges() bool {
	return len(r.Lines) > headerLines
}

// String joins the diff lines with newlines.
func (r *Result) String() string {
	return strings.Join(r.Lines, "\n")
}

// Stats summarizes the visible changes of a diff.
type Stats struct {
	Hunks   int `json:"hunks" yaml:"hunks"`
	Added   int `json:"added" yaml:"added"`
	Removed int `json:"removed" yaml:"removed"`
}

// String returns a brief description such as "1 hunk(s), +2/-1 lines".
func (s Stats) String() string {
	return fmt.Sprintf("%d hunk(s), +%d/-%d lines", s.Hunks, s.Added, s.Removed)
}

// Stats counts hunks and changed lines in the result.
func (r *Result) Stats() Stats {
	var s Stats
	if !r.HasChanges() {
		return s
	}
	for _, ln := range r.Lines[headerLines:] {
		switch {
		case strings.HasPrefix(ln, "@@"):
			s.Hunks++
		case strings.HasPrefix(ln, "+"):
			s.Added++
		case strings.HasPrefix(ln, "-"):
			s.Removed++
		}
	}
	return s
}

// Diff reads both files and computes the unified diff between their
// fragments, labelled with the two paths.
func Diff(fromPath, toPath string, m Markers) (*Result, error) {
	// #nosec G304 - paths are supplied by the operator on the command line
	from, err := os.ReadFile(fromPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fromPath, err)
	}
	// #nosec G304 - paths are supplied by the operator on the command line
	to, err := os.ReadFile(toPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", toPath, err)
	}

	// Line endings are not part of the fragment, so CRLF and LF copies compare equal.
	fromView := trimCR(Filter(string(from), m))
	toView := trimCR(Filter(string(to), m))
	lines, err := DiffViews(fromView, toView, fromPath, toPath)
	if err != nil {
		return nil, err
	}

	logging.Debug("computed fragment diff",
		logging.Operation("diff"),
		slog.String("from", fromPath),
		slog.String("to", toPath),
		logging.Count(len(lines)),
	)

	return &Result{FromPath: fromPath, ToPath: toPath, Lines: lines}, nil
}

// DiffViews diffs two filtered views and drops the hunks that only concern
// the padding in front of the fragments.
func DiffViews(from, to []string, fromName, toName string) ([]string, error) {
	raw, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        terminate(from),
		B:        terminate(to),
		FromFile: fromName,
		ToFile:   toName,
		Context:  contextLines,
		Eol:      "\n",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute diff: %w", err)
	}
	if raw == "" {
		return nil, nil
	}

	lines := strings.Split(strings.TrimSuffix(raw, "\n"), "\n")
	return filterHunks(lines, LeadingEmpty(from)-contextLines, LeadingEmpty(from), LeadingEmpty(to)), nil
}

// terminate appends a newline to every line, the shape difflib expects.
func terminate(lines []string) []string {
	out := make([]string, len(lines))
	for i, ln := range lines {
		out[i] = ln + "\n"
	}
	return out
}

// hunkState is the state of the hunk filter.
type hunkState int

const (
	emitting hunkState = iota
	suppressed
)

// hunk is one "@@" block of a unified diff.
type hunk struct {
	header string
	body   []string
}

// filterHunks folds over the hunks of a unified diff. A hunk header whose
// source start line lies before skip switches to suppressed and any other
// fully counted header switches back to emitting; headers with a single-line
// range keep the current state. A hunk whose changes all fall inside the
// padding of its side is never emitted.
func filterHunks(lines []string, skip, fromPad, toPad int) []string {
	preamble, hunks := splitHunks(lines)

	out := append([]string(nil), preamble...)
	state := emitting
	for _, h := range hunks {
		state = nextState(state, h.header, skip)
		if state == suppressed || h.paddingOnly(fromPad, toPad) {
			continue
		}
		out = append(out, h.header)
		out = append(out, h.body...)
	}
	return out
}

func nextState(current hunkState, header string, skip int) hunkState {
	match := skipHeader.FindStringSubmatch(header)
	if match == nil {
		return current
	}
	start, err := strconv.Atoi(match[1])
	if err != nil {
		return current
	}
	if start < skip {
		return suppressed
	}
	return emitting
}

// splitHunks separates the file headers from the hunks.
func splitHunks(lines []string) ([]string, []hunk) {
	var preamble []string
	var hunks []hunk
	for _, ln := range lines {
		if strings.HasPrefix(ln, "@@") {
			hunks = append(hunks, hunk{header: ln})
			continue
		}
		if len(hunks) == 0 {
			preamble = append(preamble, ln)
			continue
		}
		last := &hunks[len(hunks)-1]
		last.body = append(last.body, ln)
	}
	return preamble, hunks
}

// paddingOnly reports whether every removed line lies in the first fromPad
// lines of the source and every added line in the first toPad lines of the
// target.
func (h hunk) paddingOnly(fromPad, toPad int) bool {
	match := rangeHeader.FindStringSubmatch(h.header)
	if match == nil {
		return false
	}
	fromLine, _ := strconv.Atoi(match[1])
	toLine, _ := strconv.Atoi(match[3])

	changes := 0
	for _, ln := range h.body {
		switch {
		case strings.HasPrefix(ln, "-"):
			if fromLine > fromPad {
				return false
			}
			changes++
			fromLine++
		case strings.HasPrefix(ln, "+"):
			if toLine > toPad {
				return false
			}
			changes++
			toLine++
		default:
			fromLine++
			toLine++
		}
	}
	return changes > 0
}
