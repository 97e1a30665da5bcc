// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// App builds the root command.
func (r *Runner) App() *cli.Command {
	return &cli.Command{
		Name:    "pdfparts",
		Usage:   "Sort sheet music PDFs into one folder per part",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   r.configPath,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error); overrides log.level",
			},
		},
		Before:   r.Before,
		Commands: r.register(),
	}
}

func pathFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "index",
			Aliases: []string{"i"},
			Usage:   "Index file; overrides paths.index",
		},
		&cli.StringFlag{
			Name:  "songs",
			Usage: "Songs directory; overrides paths.songs",
		},
		&cli.StringFlag{
			Name:  "parts",
			Usage: "Parts output directory; overrides paths.parts",
		},
	}
}

func runFlags() []cli.Flag {
	return append(pathFlags(),
		&cli.StringFlag{
			Name:  "backup",
			Usage: "Backup directory; overrides paths.backup",
		},
		&cli.BoolFlag{
			Name:  "no-backup",
			Usage: "Skip the backup of the parts directory",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "Songs processed concurrently; overrides run.workers",
		},
		&cli.BoolFlag{
			Name:  "verify",
			Usage: "Verify copies by size and SHA-256",
		},
		&cli.StringFlag{
			Name:    "report",
			Aliases: []string{"o"},
			Usage:   "Write a report (.csv, .md, .json or text) to this path",
		},
		&cli.BoolFlag{
			Name:  "progress",
			Usage: "Print a line per song and copied part",
		},
		&cli.BoolFlag{
			Name:  "events",
			Usage: "List every warning and error after the summary",
		},
	)
}

// runCommand performs a full indexing run
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "run",
		Usage:  "Back up, rebuild the part folders and copy every song's parts",
		Flags:  runFlags(),
		Action: r.Run,
	}
}

// planCommand shows how each part would resolve without copying anything
func planCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Show which file each part would be copied from",
		Flags: append(pathFlags(),
			&cli.BoolFlag{
				Name:  "problems",
				Usage: "Only list parts that would not be copied",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		),
		Action: r.Plan,
	}
}

// watchCommand re-runs whenever the index or the songs change
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Run, then run again whenever the index file or the songs directory changes",
		Flags: append(runFlags(),
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "Minimum time between runs; overrides watch.interval",
			},
		),
		Action: r.Watch,
	}
}

// historyCommand lists recorded runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of runs to list",
				Value:   10,
			},
			&cli.StringFlag{
				Name:  "status",
				Usage: "Only list runs with this status (running, succeeded, completed, failed)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show one run and its warnings and errors (default: latest)",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "run",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryShow,
			},
		},
		Action: r.History,
	}
}

// setupCommand creates the config file and the database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml from the template and initialize the database",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "reset-history",
				Usage: "Drop all recorded runs before migrating",
			},
		},
		Action: r.Setup,
	}
}
