// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// resolveCommand handles track and playlist resolution
func resolveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "resolve",
		Aliases: []string{"res"},
		Usage:   "Resolve tracks against the catalog",
		Commands: []*cli.Command{
			{
				Name:  "track",
				Usage: "Resolve a single track",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Track title, decorations included (e.g. \"Tension (Ivory Remix)\")",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "artist",
						Aliases: []string{"a"},
						Usage:   "Artist string",
					},
					&cli.IntFlag{
						Name:  "year",
						Usage: "Release year hint",
					},
					&cli.StringFlag{
						Name:  "key",
						Usage: "Musical key hint (e.g. \"Am\" or \"8A\")",
					},
					&cli.BoolFlag{
						Name:  "title-only",
						Usage: "Skip artist-based queries and scoring",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the full result as JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the winning release page in the browser",
					},
				},
				Action: r.ResolveTrack,
			},
			{
				Name:  "playlist",
				Usage: "Resolve every track in a playlist file (.csv, .m3u/.m3u8 or plain text)",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "file",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write results to this file",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: json, csv or markdown",
						Value:   "json",
					},
				},
				Action: r.ResolvePlaylist,
			},
		},
	}
}

// cacheCommand handles the catalog cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and maintain the catalog cache",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cache entry counts",
				Action: r.CacheStats,
			},
			{
				Name:   "purge",
				Usage:  "Delete expired cache entries",
				Action: r.CachePurge,
			},
			{
				Name:   "clear",
				Usage:  "Delete every cache entry",
				Action: r.CacheClear,
			},
		},
	}
}

// setupCommand handles configuration and database initialization.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a config file and initialize the database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// tuiCommand returns the top-level TUI command for interactive resolution.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for playlist resolution",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "file",
			},
		},
		Action: r.TUI,
	}
}
