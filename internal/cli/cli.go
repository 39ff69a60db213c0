// Package cli provides the command-line interface for syncinclude.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/syncinclude/internal/config"
	"github.com/klauern/syncinclude/internal/logging"
	"github.com/klauern/syncinclude/internal/ui"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// env holds the process I/O the commands talk to.
type env struct {
	in      *bufio.Reader
	out     io.Writer
	errOut  io.Writer
	confirm Confirmer
}

func defaultEnv() *env {
	in := bufio.NewReader(os.Stdin)
	return &env{
		in:      in,
		out:     os.Stdout,
		errOut:  os.Stderr,
		confirm: NewLineConfirmer(in, os.Stdout),
	}
}

// Run executes the CLI application with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, defaultEnv())
}

func run(ctx context.Context, args []string, e *env) error {
	app := &cli.Command{
		Name:      "syncinclude",
		Usage:     "Keep a shared code fragment in sync across files",
		Version:   Version,
		Writer:    e.out,
		ErrWriter: e.errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: config.FileName,
				Usage: "Path to the configuration file",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Write log entries to stderr as JSON",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			configureColors(cmd)
			logger := configureLogging(cmd, e.errOut)
			return logging.NewContext(ctx, logger), nil
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Present() {
				_, _ = fmt.Fprintln(e.out, "Unknown command.")
			}
			printUsage(e.out)
			return nil
		},
		Commands: []*cli.Command{
			initCommand(e),
			diffCommand(e),
			getCommand(e),
			putCommand(e),
			statusCommand(e),
			configCommand(e),
			versionCommand(e),
		},
	}
	return app.Run(ctx, args)
}

// printUsage writes the short command summary shown for unknown commands
// and missing arguments.
func printUsage(w io.Writer) {
	_, _ = fmt.Fprint(w, `syncinclude: synchronize a shared code fragment across files
 init: create the syncinclude configuration
 get <file> [module_file]: pull the module fragment into <file>
 put <file> [module_file]: push the fragment of <file> into the module
 diff <file> [module_file]: show differences between <file> and the module
 status <file>...: report which files are out of sync with the module
`)
}

// configureColors sets up color output based on CLI flags.
func configureColors(cmd *cli.Command) {
	if cmd.Bool("no-color") {
		ui.DisableColors()
	}
}

// configureLogging sets up the logging level based on CLI flags.
func configureLogging(cmd *cli.Command, w io.Writer) *slog.Logger {
	opts := logging.DefaultOptions()
	opts.Output = w
	opts.JSON = cmd.Bool("log-json")

	if cmd.Bool("debug") {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	} else if cmd.Bool("verbose") {
		opts.Level = slog.LevelInfo
	}

	logger := logging.New(opts)
	logging.SetDefault(logger)

	logging.Debug("logging configured", slog.String("level", opts.Level.String()))

	return logger
}
