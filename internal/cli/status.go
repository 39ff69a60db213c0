package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/klauern/syncinclude/internal/fragment"
	"github.com/klauern/syncinclude/internal/logging"
	"github.com/klauern/syncinclude/internal/progress"
	"github.com/klauern/syncinclude/internal/ui"
)

// State is the sync state of a single file.
type State string

const (
	// StateInSync means the file's fragment matches the module.
	StateInSync State = "in-sync"
	// StateDiffers means the fragments differ.
	StateDiffers State = "differs"
	// StateNoFragment means the file has no start marker.
	StateNoFragment State = "no-fragment"
	// StateMissing means the file does not exist.
	StateMissing State = "missing"
)

// Label returns the state as title-cased words, e.g. "In Sync".
func (s State) Label() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(s), "-", " "))
}

// FileStatus is one row of the status report.
type FileStatus struct {
	Path    string          `json:"path" yaml:"path"`
	State   State           `json:"state" yaml:"state"`
	Changes *fragment.Stats `json:"changes,omitempty" yaml:"changes,omitempty"`
}

func statusCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Report which files are out of sync with the module",
		ArgsUsage: "<file>...",
		Description: `Compares the fragment of every given file with the module file and
   reports one of: in-sync, differs, no-fragment, missing.

   Examples:
     syncinclude status src/*.py
     syncinclude status --format json --check a.sh b.sh`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "table",
				Usage:   "Output format: table, json, yaml",
			},
			&cli.StringFlag{
				Name:  "module",
				Usage: "Module file to compare with (defaults to the configured module)",
			},
			&cli.BoolFlag{
				Name:  "check",
				Usage: "Return an error when any file is not in sync",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, ok := e.loadConfig(ctx, cmd)
			if !ok {
				return nil
			}
			files := cmd.Args().Slice()
			if len(files) == 0 {
				_, _ = fmt.Fprintln(e.out, "File name parameter required.")
				printUsage(e.out)
				return nil
			}

			module := cfg.ModuleFile()
			if m := cmd.String("module"); m != "" {
				module = m
			}
			if _, err := os.Stat(module); err != nil {
				return fmt.Errorf("module file: %w", err)
			}

			bar := progress.New(progress.Options{
				Max:         len(files),
				Description: "Checking files",
				Writer:      e.errOut,
			})
			statuses := make([]FileStatus, 0, len(files))
			for _, f := range files {
				st, err := checkFile(f, module, cfg.Markers())
				if err != nil {
					return err
				}
				statuses = append(statuses, st)
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			logging.WithContext(ctx).Info("status checked", logging.Count(len(statuses)))

			if err := e.printStatus(statuses, cmd.String("format")); err != nil {
				return err
			}

			if cmd.Bool("check") {
				if n := countOutOfSync(statuses); n > 0 {
					return fmt.Errorf("%d file(s) out of sync", n)
				}
			}
			return nil
		},
	}
}

// checkFile compares path with module in both directions so a change is
// reported even when one direction's padding heuristic hides it.
func checkFile(path, module string, m fragment.Markers) (FileStatus, error) {
	st := FileStatus{Path: path}

	// #nosec G304 - path is supplied by the operator on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			st.State = StateMissing
			return st, nil
		}
		return st, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !fragment.HasFragment(fragment.Filter(string(data), m)) {
		st.State = StateNoFragment
		return st, nil
	}

	pull, err := fragment.Diff(module, path, m)
	if err != nil {
		return st, err
	}
	push, err := fragment.Diff(path, module, m)
	if err != nil {
		return st, err
	}

	switch {
	case pull.HasChanges():
		stats := pull.Stats()
		st.State, st.Changes = StateDiffers, &stats
	case push.HasChanges():
		stats := push.Stats()
		st.State, st.Changes = StateDiffers, &stats
	default:
		st.State = StateInSync
	}
	return st, nil
}

func countOutOfSync(statuses []FileStatus) int {
	n := 0
	for _, st := range statuses {
		if st.State != StateInSync {
			n++
		}
	}
	return n
}

func (e *env) printStatus(statuses []FileStatus, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(e.out)
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	case "yaml":
		enc := yaml.NewEncoder(e.out)
		defer func() { _ = enc.Close() }()
		return enc.Encode(statuses)
	case "table", "":
		rows := make([][]string, 0, len(statuses))
		for _, st := range statuses {
			changes := ""
			if st.Changes != nil {
				changes = st.Changes.String()
			}
			rows = append(rows, []string{st.Path, stateCell(st.State), changes})
		}
		_, _ = fmt.Fprintln(e.out, ui.Table([]string{"FILE", "STATE", "CHANGES"}, rows))
		return nil
	default:
		return fmt.Errorf("unsupported format %q (use table, json or yaml)", format)
	}
}

func stateCell(s State) string {
	switch s {
	case StateInSync:
		return ui.StatusSuccess(s.Label())
	case StateDiffers:
		return ui.StatusWarning(s.Label())
	case StateMissing:
		return ui.StatusError(s.Label())
	default:
		return ui.StatusSkipped(s.Label())
	}
}

