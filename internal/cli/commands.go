package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/klauern/syncinclude/internal/backup"
	"github.com/klauern/syncinclude/internal/config"
	"github.com/klauern/syncinclude/internal/fragment"
	"github.com/klauern/syncinclude/internal/logging"
	"github.com/klauern/syncinclude/internal/ui"
	"github.com/klauern/syncinclude/internal/util"
)

// confirmPrompt is shown before get and put write anything.
const confirmPrompt = "continue? (y/N) >> "

func initCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create the configuration file interactively",
		Description: `Prompts for the fragment start marker, the end marker and the module
   file path, then writes them to the configuration file.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := &config.Config{}
			var err error
			if cfg.StartMarker, err = ask(e.in, e.out, config.KeyModuleStart+" >> "); err != nil {
				return err
			}
			if cfg.EndMarker, err = ask(e.in, e.out, config.KeyModuleEnd+" >> "); err != nil {
				return err
			}
			if cfg.ModulePath, err = ask(e.in, e.out, config.KeyModuleFile+"? >> "); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			path := cmd.String("config")
			if err := cfg.Save(path); err != nil {
				return err
			}
			logging.WithContext(ctx).Info("configuration saved", logging.Path(path))
			return nil
		},
	}
}

func diffCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "Show how the fragment in a file differs from the module",
		ArgsUsage: "<file> [module_file]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, ok := e.resolvePair(ctx, cmd)
			if !ok {
				return nil
			}

			res, err := fragment.Diff(p.target, p.module, p.cfg.Markers())
			if err != nil {
				return err
			}
			if len(res.Lines) == 0 {
				// identical views yield no diff at all, not even headers
				_, _ = fmt.Fprintln(e.out)
				return nil
			}
			e.printDiff(res)
			return nil
		},
	}
}

func getCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Pull the module fragment into a file",
		ArgsUsage: "<file> [module_file]",
		Flags:     []cli.Flag{backupFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return e.syncPair(ctx, cmd, directionGet)
		},
	}
}

func putCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "put",
		Usage:     "Push the fragment of a file into the module",
		ArgsUsage: "<file> [module_file]",
		Flags:     []cli.Flag{backupFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return e.syncPair(ctx, cmd, directionPut)
		},
	}
}

func backupFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "backup",
		Usage: "Snapshot the file about to be rewritten into " + util.BackupsDirName,
	}
}

// pair is a target file and the module file it is compared with.
type pair struct {
	cfg    *config.Config
	target string
	module string
}

// resolvePair loads the configuration and reads the file arguments. When it
// returns false the reason has already been printed and the command must
// stop without touching any file.
func (e *env) resolvePair(ctx context.Context, cmd *cli.Command) (pair, bool) {
	cfg, ok := e.loadConfig(ctx, cmd)
	if !ok {
		return pair{}, false
	}

	args := cmd.Args()
	module := cfg.ModuleFile()
	if args.Len() > 1 {
		module = args.Get(1)
	}
	if args.Len() < 1 {
		_, _ = fmt.Fprintln(e.out, "File name parameter required.")
		printUsage(e.out)
		return pair{}, false
	}

	return pair{cfg: cfg, target: args.Get(0), module: module}, true
}

// loadConfig loads the configuration named by --config, reporting an
// invalid configuration to the operator.
func (e *env) loadConfig(ctx context.Context, cmd *cli.Command) (*config.Config, bool) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		logging.WithContext(ctx).Info("configuration not loaded", logging.Err(err))
		_, _ = fmt.Fprintln(e.out, "configuration is invalid.")
		return nil, false
	}
	return cfg, true
}

func (e *env) printDiff(res *fragment.Result) {
	for _, ln := range res.Lines {
		_, _ = fmt.Fprintln(e.out, ui.DiffLine(ln))
	}
}

// direction selects which side of a pair is rewritten.
type direction int

const (
	// directionGet copies the module fragment into the target file.
	directionGet direction = iota
	// directionPut copies the target fragment into the module file.
	directionPut
)

func (d direction) String() string {
	if d == directionPut {
		return "put"
	}
	return "get"
}

// syncPair shows the pending change, asks for confirmation and applies it.
func (e *env) syncPair(ctx context.Context, cmd *cli.Command, dir direction) error {
	p, ok := e.resolvePair(ctx, cmd)
	if !ok {
		return nil
	}

	from, to := p.module, p.target
	banner := fmt.Sprintf("sync %s <=== %s", p.target, p.module)
	if dir == directionPut {
		from, to = p.target, p.module
		banner = fmt.Sprintf("sync %s ===> %s", p.target, p.module)
	}

	res, err := fragment.Diff(from, to, p.cfg.Markers())
	if err != nil {
		return err
	}
	if !res.HasChanges() {
		_, _ = fmt.Fprintln(e.out, "No changes.")
		return nil
	}

	e.printDiff(res)
	_, _ = fmt.Fprintln(e.out)
	_, _ = fmt.Fprintln(e.out, banner)

	confirmed, err := e.confirm.Confirm(confirmPrompt)
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	log := logging.WithContext(ctx)
	if !confirmed {
		log.Info("sync declined", logging.Operation(dir.String()), logging.Path(to))
		return nil
	}

	if cmd.Bool("backup") {
		dirPath := util.BackupsPath(filepath.Dir(cmd.String("config")))
		meta, err := backup.Create(to, dirPath)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(e.out, "Backed up %s to %s\n", to, meta.BackupPath)
	}

	if err := fragment.Put(from, to, p.cfg.Markers()); err != nil {
		if errors.Is(err, fragment.ErrNoFragment) {
			logging.Warn("sync skipped", logging.Operation(dir.String()), logging.Path(to), logging.Err(err))
			_, _ = fmt.Fprintln(e.out, ui.StatusError(err.Error()))
			return nil
		}
		return err
	}

	_, _ = fmt.Fprintln(e.out, ui.StatusSuccess("updated "+to))
	log.Info("sync applied", logging.Operation(dir.String()), logging.Path(to))
	return nil
}
