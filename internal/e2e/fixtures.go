package e2e

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauern/syncinclude/internal/config"
)

// Fixture writes and reads files below a base directory.
type Fixture struct {
	t       *testing.T
	baseDir string
}

// NewFixture creates a new fixture helper rooted at the given directory.
func NewFixture(t *testing.T, baseDir string) *Fixture {
	t.Helper()
	return &Fixture{
		t:       t,
		baseDir: baseDir,
	}
}

// WriteFile writes content to a file relative to the fixture base directory.
// It creates parent directories as needed.
func (f *Fixture) WriteFile(relPath, content string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
		f.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}

	return fullPath
}

// WriteConfig writes a configuration file with the given markers and module
// path to the default location.
func (f *Fixture) WriteConfig(start, end, module string) string {
	f.t.Helper()
	cfg := config.Config{StartMarker: start, EndMarker: end, ModulePath: module}
	return f.WriteFile(config.FileName, cfg.String())
}

// WriteFragmentFile writes a file made of prefix lines, a fragment region
// wrapped in the markers, and suffix lines.
func (f *Fixture) WriteFragmentFile(relPath string, m [2]string, prefix, body, suffix []string) string {
	f.t.Helper()

	lines := make([]string, 0, len(prefix)+len(body)+len(suffix)+2)
	lines = append(lines, prefix...)
	lines = append(lines, m[0])
	lines = append(lines, body...)
	lines = append(lines, m[1])
	lines = append(lines, suffix...)
	return f.WriteFile(relPath, strings.Join(lines, "\n")+"\n")
}

// Path returns the full path for a relative path.
func (f *Fixture) Path(relPath string) string {
	return filepath.Join(f.baseDir, relPath)
}

// Exists returns true if the file or directory exists.
func (f *Fixture) Exists(relPath string) bool {
	f.t.Helper()
	_, err := os.Stat(filepath.Join(f.baseDir, relPath))
	return err == nil
}

// ReadFile reads and returns the content of a file.
func (f *Fixture) ReadFile(relPath string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	// #nosec G304 - fullPath is constructed from trusted test fixture base and test-provided path
	data, err := os.ReadFile(fullPath)
	if err != nil {
		f.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}

	return string(data)
}

// Fixture returns a fixture helper for the harness working directory.
func (h *Harness) Fixture() *Fixture {
	h.t.Helper()
	return NewFixture(h.t, h.workDir)
}
