package e2e_test

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauern/syncinclude/internal/config"
	"github.com/klauern/syncinclude/internal/e2e"
	"github.com/klauern/syncinclude/internal/util"
)

var (
	updateGolden = flag.Bool("update", false, "update golden files")
	testdataDir  string
)

var markers = [2]string{"# BEGIN", "# END"}

func TestMain(m *testing.M) {
	flag.Parse()
	e2e.SetUpdateGolden(*updateGolden)

	// The harness changes directory, so resolve testdata up front.
	dir, err := filepath.Abs("testdata")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve testdata: %v\n", err)
		os.Exit(1)
	}
	testdataDir = dir

	os.Exit(m.Run())
}

// setup writes the configuration, a module holding "X = 1" and a target
// holding "X = 2" after two unrelated lines.
func setup(t *testing.T) (*e2e.Harness, *e2e.Fixture) {
	t.Helper()
	h := e2e.NewHarness(t)
	f := h.Fixture()
	f.WriteConfig(markers[0], markers[1], "module.py")
	f.WriteFragmentFile("module.py", markers, nil, []string{"X = 1"}, nil)
	f.WriteFragmentFile("target.py", markers, []string{"A", "B"}, []string{"X = 2"}, nil)
	return h, f
}

func TestVersionCommand(t *testing.T) {
	h := e2e.NewHarness(t)

	result := h.Run("version")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "syncinclude version")
}

func TestUnknownCommandPrintsUsage(t *testing.T) {
	h, f := setup(t)

	result := h.Run("sync", "target.py")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputMatches(t, result, testdataDir, "unknown_command")
	e2e.AssertFileEquals(t, f.Path("target.py"), "A\nB\n# BEGIN\nX = 2\n# END\n")
}

func TestInitThroughStdin(t *testing.T) {
	h := e2e.NewHarness(t)
	f := h.Fixture()

	result := h.RunWithStdin("# BEGIN\n# END\nmodule.py\n", "init")

	e2e.AssertSuccess(t, result)
	e2e.AssertFileEquals(t, f.Path(config.FileName),
		"comment_module_start: # BEGIN\ncomment_module_end: # END\nmodule_file_path: module.py")

	result = h.Run("config", "show")
	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "module_file_path: module.py")
}

func TestInitEmptyMarkerFails(t *testing.T) {
	h := e2e.NewHarness(t)
	f := h.Fixture()

	result := h.RunWithStdin("\n# END\nmodule.py\n", "init")

	e2e.AssertExitCode(t, result, 1)
	e2e.AssertErrorContains(t, result, "configuration is invalid")
	e2e.AssertFileNotExists(t, f.Path(config.FileName))
}

func TestDiffScenario(t *testing.T) {
	h, _ := setup(t)

	result := h.Run("diff", "target.py")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputMatches(t, result, testdataDir, "diff_scenario")
}

func TestDiffHidesPaddingHunk(t *testing.T) {
	h := e2e.NewHarness(t)
	f := h.Fixture()
	f.WriteConfig(markers[0], markers[1], "module.py")

	body := []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8"}
	prefix := make([]string, 0, 10)
	for i := 1; i <= 10; i++ {
		prefix = append(prefix, fmt.Sprintf("p%d", i))
	}
	f.WriteFragmentFile("module.py", markers, nil, append(body, "X = 1"), nil)
	f.WriteFragmentFile("target.py", markers, prefix, append(body, "X = 2"), []string{"tail"})

	result := h.Run("diff", "target.py")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputMatches(t, result, testdataDir, "diff_padded")
}

func TestGetConfirmedThroughStdin(t *testing.T) {
	h, f := setup(t)

	result := h.RunWithStdin("y\n", "get", "target.py")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "sync target.py <=== module.py")
	e2e.AssertOutputContains(t, result, "continue? (y/N) >> ")
	e2e.AssertOutputContains(t, result, "updated target.py")
	e2e.AssertFileEquals(t, f.Path("target.py"), "A\nB\n# BEGIN\nX = 1\n# END\n")

	result = h.Run("get", "target.py")
	e2e.AssertSuccess(t, result)
	e2e.AssertOutputEquals(t, result, "No changes.\n")

	result = h.Run("put", "target.py")
	e2e.AssertSuccess(t, result)
	e2e.AssertOutputEquals(t, result, "No changes.\n")
}

func TestSyncDeclined(t *testing.T) {
	tests := map[string]struct {
		stdin string
		args  []string
	}{
		"get end of input": {stdin: "", args: []string{"get", "target.py"}},
		"get answered n":   {stdin: "n\n", args: []string{"get", "target.py"}},
		"put answered yes": {stdin: "yes\n", args: []string{"put", "target.py"}},
		"put empty answer": {stdin: "\n", args: []string{"put", "target.py"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			h, f := setup(t)

			result := h.RunWithStdin(tt.stdin, tt.args...)

			e2e.AssertSuccess(t, result)
			e2e.AssertOutputNotContains(t, result, "updated")
			e2e.AssertFileEquals(t, f.Path("target.py"), "A\nB\n# BEGIN\nX = 2\n# END\n")
			e2e.AssertFileEquals(t, f.Path("module.py"), "# BEGIN\nX = 1\n# END\n")
		})
	}
}

func TestPutKeepsModuleTail(t *testing.T) {
	h := e2e.NewHarness(t)
	f := h.Fixture()
	f.WriteConfig(markers[0], markers[1], "module.py")
	f.WriteFragmentFile("module.py", markers, []string{"head"}, []string{"X = 1"}, []string{"tail"})
	f.WriteFragmentFile("target.py", markers, nil, []string{"X = 2", "Y = 3"}, nil)

	result := h.RunWithStdin("Y\n", "put", "--backup", "target.py")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "sync target.py ===> module.py")
	e2e.AssertFileEquals(t, f.Path("module.py"), "head\n# BEGIN\nX = 2\nY = 3\n# END\ntail\n")

	backups := filepath.Join(h.WorkDir(), util.BackupsDirName)
	entries, err := os.ReadDir(backups)
	if err != nil {
		t.Fatalf("read backups: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one backup, got %d", len(entries))
	}
	e2e.AssertFileEquals(t, filepath.Join(backups, entries[0].Name()),
		"head\n# BEGIN\nX = 1\n# END\ntail\n")
}

func TestGetIntoCRLFTarget(t *testing.T) {
	h, f := setup(t)
	f.WriteFile("target.py", "A\r\nB\r\n# BEGIN\r\nX = 2\r\n# END\r\n")

	result := h.Run("diff", "target.py")
	e2e.AssertSuccess(t, result)
	e2e.AssertOutputMatches(t, result, testdataDir, "diff_scenario")

	result = h.RunWithStdin("y\n", "get", "target.py")
	e2e.AssertSuccess(t, result)
	e2e.AssertFileEquals(t, f.Path("target.py"), "A\r\nB\r\n# BEGIN\nX = 1\n# END\n")

	result = h.Run("diff", "target.py")
	e2e.AssertSuccess(t, result)
	e2e.AssertOutputNotContains(t, result, "@@")
}

func TestExplicitModuleArgument(t *testing.T) {
	h, f := setup(t)
	f.WriteFragmentFile("other.py", markers, nil, []string{"X = 3"}, nil)

	result := h.RunWithStdin("y\n", "get", "target.py", "other.py")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "sync target.py <=== other.py")
	e2e.AssertFileEquals(t, f.Path("target.py"), "A\nB\n# BEGIN\nX = 3\n# END\n")
	e2e.AssertFileEquals(t, f.Path("module.py"), "# BEGIN\nX = 1\n# END\n")
}

func TestEnvironmentOverridesModule(t *testing.T) {
	h, f := setup(t)
	f.WriteFragmentFile("other.py", markers, nil, []string{"X = 4"}, nil)
	h.SetEnv("SYNC_INCLUDE_MODULE_FILE", "other.py")

	result := h.Run("diff", "target.py")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "+++ other.py")
	e2e.AssertOutputContains(t, result, "+X = 4")
}

func TestModulePathExpandsHome(t *testing.T) {
	h, f := setup(t)
	home := t.TempDir()
	h.SetEnv("HOME", home)
	e2e.NewFixture(t, home).WriteFragmentFile("shared/module.py", markers, nil, []string{"X = 5"}, nil)
	f.WriteConfig(markers[0], markers[1], "~/shared/module.py")

	result := h.Run("diff", "target.py")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "+X = 5")
}

func TestMissingArguments(t *testing.T) {
	h, _ := setup(t)

	for _, cmd := range []string{"diff", "get", "put"} {
		result := h.Run(cmd)

		e2e.AssertSuccess(t, result)
		if !strings.HasPrefix(result.Stdout, "File name parameter required.\n") {
			t.Errorf("%s: expected missing file notice, got %q", cmd, result.Stdout)
		}
	}
}

func TestInvalidConfiguration(t *testing.T) {
	tests := map[string]string{
		"missing key":      "comment_module_start: # BEGIN\ncomment_module_end: # END\n",
		"line without ':'": "comment_module_start # BEGIN\ncomment_module_end: # END\nmodule_file_path: m.py\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			h, f := setup(t)
			f.WriteFile(config.FileName, content)

			result := h.RunWithStdin("y\n", "get", "target.py")

			e2e.AssertSuccess(t, result)
			e2e.AssertOutputEquals(t, result, "configuration is invalid.\n")
			e2e.AssertFileEquals(t, f.Path("target.py"), "A\nB\n# BEGIN\nX = 2\n# END\n")
		})
	}
}

func TestStatusCheck(t *testing.T) {
	h, f := setup(t)
	f.WriteFragmentFile("synced.py", markers, []string{"import os"}, []string{"X = 1"}, nil)

	result := h.Run("status", "--format", "json", "--check", "target.py", "synced.py")

	e2e.AssertExitCode(t, result, 1)
	e2e.AssertErrorContains(t, result, "1 file(s) out of sync")

	var rows []struct {
		Path  string `json:"path"`
		State string `json:"state"`
	}
	if err := json.Unmarshal([]byte(result.Stdout), &rows); err != nil {
		t.Fatalf("status output is not JSON: %v\n%s", err, result.Stdout)
	}
	if len(rows) != 2 || rows[0].State != "differs" || rows[1].State != "in-sync" {
		t.Errorf("unexpected status rows: %+v", rows)
	}
}
