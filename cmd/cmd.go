// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/formatter"
	"github.com/urfave/cli/v3"
)

// buildCommand generates a playlist from one or more seed artists.
func buildCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "build",
		Aliases:   []string{"generate"},
		Usage:     "Build a playlist from up to five seed artists",
		ArgsUsage: "[ARTIST...]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "artist",
				Aliases: []string{"a"},
				Usage:   "Seed artist name; repeat or comma-separate for several",
			},
			&cli.IntFlag{
				Name:    "size",
				Aliases: []string{"n"},
				Usage:   "Target playlist length (default from config)",
			},
			&cli.IntFlag{
				Name:  "albums-per-artist",
				Usage: "Maximum releases sampled per artist (default from config)",
			},
			&cli.IntFlag{
				Name:  "tracks-per-album",
				Usage: "Maximum tracks kept per release (default from config)",
			},
			&cli.BoolFlag{
				Name:  "shuffle",
				Usage: "Shuffle pools and the final playlist (default from config)",
			},
			&cli.BoolFlag{
				Name:  "solo-only",
				Usage: "Keep only tracks credited exactly to the seed artist (default from config)",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "Shuffle seed for a reproducible playlist; 0 draws one",
			},
			&cli.StringFlag{
				Name:  "market",
				Usage: "Catalog market for release listings (default from config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Export file path (default from config)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: " + strings.Join(formatter.Formats(), ", ") + " (default from output extension)",
			},
			&cli.BoolFlag{
				Name:  "no-export",
				Usage: "Print the playlist without writing a file",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the build result as JSON",
			},
			&cli.BoolFlag{
				Name:  "table",
				Usage: "Print the playlist as a table",
			},
			&cli.BoolFlag{
				Name:  "cache",
				Usage: "Reuse artist resolutions stored in the database",
			},
		},
		Action: r.Build,
	}
}

// artistsCommand exposes artist resolution on its own.
func artistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artists",
		Usage: "Artist lookup operations",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search the catalog for an artist and show which result a build would pick",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ArtistsSearch,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config.toml from the bundled template",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Reset an existing config to defaults, keeping its credentials",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recently applied migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// cacheCommand manages the artist resolution cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and clear cached artist resolutions",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached artist resolutions",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheList,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cached artist resolution",
				Action: r.CacheClear,
			},
		},
	}
}

// serveCommand runs the HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve playlist builds over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address",
				Value: "127.0.0.1:8080",
			},
			&cli.BoolFlag{
				Name:  "cache",
				Usage: "Reuse artist resolutions stored in the database",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist building.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive playlist builder",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "cache",
				Usage: "Reuse artist resolutions stored in the database",
			},
		},
		Action: r.TUI,
	}
}
