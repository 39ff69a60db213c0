package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/urfave/cli/v3"
)

func versionCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Display version and build information",
		Action: func(_ context.Context, _ *cli.Command) error {
			_, _ = fmt.Fprintf(e.out, "syncinclude version %s\n", Version)
			_, _ = fmt.Fprintf(e.out, "  commit: %s\n", Commit)
			_, _ = fmt.Fprintf(e.out, "  built: %s\n", BuildDate)
			_, _ = fmt.Fprintf(e.out, "  go: %s\n", runtime.Version())
			return nil
		},
	}
}
