package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/klauern/syncinclude/internal/config"
)

func configCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect the configuration",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the loaded configuration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: text, yaml, json, toml",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, ok := e.loadConfig(ctx, cmd)
					if !ok {
						return nil
					}
					return e.printConfig(cfg, cmd.String("format"))
				},
			},
			{
				Name:  "path",
				Usage: "Print the configuration file path",
				Action: func(_ context.Context, cmd *cli.Command) error {
					path := cmd.String("config")
					if abs, err := filepath.Abs(path); err == nil {
						path = abs
					}
					if !config.Exists(path) {
						_, _ = fmt.Fprintf(e.out, "%s (not found, run 'syncinclude init')\n", path)
						return nil
					}
					_, _ = fmt.Fprintln(e.out, path)
					return nil
				},
			},
		},
	}
}

func (e *env) printConfig(cfg *config.Config, format string) error {
	switch format {
	case "text", "":
		_, _ = fmt.Fprintln(e.out, cfg.String())
		return nil
	case "yaml":
		enc := yaml.NewEncoder(e.out)
		defer func() { _ = enc.Close() }()
		return enc.Encode(cfg)
	case "json":
		enc := json.NewEncoder(e.out)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case "toml":
		return toml.NewEncoder(e.out).Encode(cfg)
	default:
		return fmt.Errorf("unsupported format %q (use text, yaml, json or toml)", format)
	}
}
