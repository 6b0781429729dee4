package main

import (
	"fmt"
	"io"
	"os"

	"github.com/standardbeagle/flx/internal/config"
	"github.com/standardbeagle/flx/internal/debug"
	"github.com/standardbeagle/flx/internal/version"

	"github.com/urfave/cli/v2"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}
	if c.IsSet("base-config") {
		base, err := config.Load(c.String("base-config"))
		if err != nil {
			return nil, fmt.Errorf("failed to load base config: %w", err)
		}
		cfg = config.Merge(base, cfg)
	}

	// Apply CLI flag overrides
	if c.IsSet("workers") {
		cfg.Ranking.Workers = c.Int("workers")
	}
	if c.IsSet("cache-size") {
		cfg.Ranking.CacheSize = c.Int("cache-size")
	}
	if c.IsSet("separators") {
		policy, err := config.ParseSeparatorPolicy(c.String("separators"))
		if err != nil {
			return nil, err
		}
		cfg.Scoring.SeparatorPolicy = policy
	}

	if err := config.NewValidator().ValidateAndSetDefaults(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return cfg, nil
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:                   "flx",
		Usage:                  "Fuzzy-match and rank lines",
		Version:                version.FullInfo(),
		UseShortOptionHandling: true,
		Reader:                 stdin,
		Writer:                 stdout,
		ErrWriter:              stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (.flx.kdl or flx.toml)",
				Value:   config.ConfigFileName,
			},
			&cli.StringFlag{
				Name:  "base-config",
				Usage: "Shared config that --config refines (e.g. a user-wide flx.toml); --config values equal to the defaults do not override it",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Shards matched concurrently for large inputs (0 = one per CPU)",
			},
			&cli.IntFlag{
				Name:  "cache-size",
				Usage: "Query results remembered by the corpus (0 disables)",
			},
			&cli.StringFlag{
				Name:  "separators",
				Usage: "Whether separator characters are searchable: index or skip",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress debug output",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "query",
				Aliases:   []string{"q"},
				Usage:     "Rank input lines against PATTERN",
				ArgsUsage: "PATTERN",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "Read lines from files matching glob (e.g., --input 'logs/**/*.txt'); stdin when omitted",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum results (0 = config default_limit)",
					},
					&cli.BoolFlag{
						Name:  "factor-from-order",
						Usage: "Favor later lines when scores tie",
					},
					&cli.BoolFlag{
						Name:    "scores",
						Aliases: []string{"s"},
						Usage:   "Print the score before each line",
					},
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "Re-run the query whenever an input file changes",
					},
				},
				Action: queryCommand,
			},
			{
				Name:      "files",
				Aliases:   []string{"f"},
				Usage:     "Rank file paths under a directory against PATTERN",
				ArgsUsage: "PATTERN",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "root",
						Aliases: []string{"r"},
						Usage:   "Directory to list",
						Value:   ".",
					},
					&cli.StringFlag{
						Name:    "glob",
						Aliases: []string{"g"},
						Usage:   "Files to consider, relative to root",
						Value:   "**/*",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum results (0 = config default_limit)",
					},
					&cli.BoolFlag{
						Name:    "scores",
						Aliases: []string{"s"},
						Usage:   "Print the score before each path",
					},
				},
				Action: filesCommand,
			},
			{
				Name:      "score",
				Usage:     "Score PATTERN against a single LINE (exit status 1 when it does not match)",
				ArgsUsage: "LINE PATTERN",
				Action:    scoreCommand,
			},
			{
				Name:      "explain",
				Usage:     "Show the heat profile of LINE and where PATTERN lands on it",
				ArgsUsage: "LINE PATTERN",
				Action:    explainCommand,
			},
			{
				Name:  "config",
				Usage: "Configuration management",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Print the effective configuration as TOML",
						Action: configShowCommand,
					},
					{
						Name:   "validate",
						Usage:  "Validate the configuration file",
						Action: configValidateCommand,
					},
				},
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("quiet") {
				debug.SetQuietMode(true)
				return nil
			}
			if debug.IsDebugEnabled() {
				path, err := debug.InitDebugLogFile()
				if err != nil {
					// no temp dir; log to stderr instead
					debug.SetDebugOutput(c.App.ErrWriter)
					fmt.Fprintf(c.App.ErrWriter, "debug log: stderr (%v)\n", err)
					return nil
				}
				fmt.Fprintf(c.App.ErrWriter, "debug log: %s\n", path)
			}
			return nil
		},
	}
}

// run executes the app. An error that ends the run is recorded in the
// debug log before the log is closed.
func run(app *cli.App, args []string) error {
	err := app.Run(args)
	if err != nil {
		err = debug.Fatal("%v", err)
	}
	if cerr := debug.CloseDebugLog(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := run(app, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
