package fragment

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/klauern/syncinclude/internal/logging"
)

// Splice replaces every fragment region in dest with module and returns the
// new text. Lines outside the regions are kept byte for byte. A region runs
// from a start marker line through the next end marker line; a start marker
// without a matching end marker swallows the rest of the text. Marker lines
// may end in "\r".
func Splice(dest string, module []string, m Markers) (string, error) {
	lines := strings.Split(dest, "\n")
	out := make([]string, 0, len(lines)+len(module))

	found := false
	inside := false
	for _, ln := range lines {
		if isMarker(ln, m.Start) {
			found = true
			inside = true
			out = append(out, module...)
		}
		if !inside {
			out = append(out, ln)
		}
		if isMarker(ln, m.End) {
			inside = false
		}
	}

	if !found {
		return "", ErrNoFragment
	}
	return strings.Join(out, "\n"), nil
}

// Put copies the fragment of srcPath into dstPath, rewriting the whole
// destination file. The write is not atomic: a crash mid-write can leave
// the destination truncated.
func Put(srcPath, dstPath string, m Markers) error {
	// #nosec G304 - paths are supplied by the operator on the command line
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", srcPath, err)
	}
	view := Filter(string(src), m)
	if !HasFragment(view) {
		return fmt.Errorf("%s: %w", srcPath, ErrNoFragment)
	}

	info, err := os.Stat(dstPath)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", dstPath, err)
	}
	// #nosec G304 - paths are supplied by the operator on the command line
	dst, err := os.ReadFile(dstPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dstPath, err)
	}

	module := Module(view)
	text, err := Splice(string(dst), module, m)
	if err != nil {
		return fmt.Errorf("%s: %w", dstPath, err)
	}

	if err := os.WriteFile(dstPath, []byte(text), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", dstPath, err)
	}

	logging.Info("fragment written",
		logging.Operation("put"),
		slog.String("from", srcPath),
		logging.Path(dstPath),
		logging.Count(len(module)),
	)
	return nil
}
