// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles database and configuration bootstrapping.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a starter config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path to write the config file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:   "spotify",
				Usage:  "Authenticate with Spotify using OAuth2",
				Action: r.AuthSpotify,
			},
			{
				Name:   "youtube",
				Usage:  "Authenticate with the YouTube Data API using OAuth2",
				Action: r.AuthYouTube,
			},
			{
				Name:  "ytmusic",
				Usage: "Verify YouTube Music proxy credentials",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "auth_file"},
				},
				Action: r.AuthYTMusic,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state",
				Action: r.AuthStatus,
			},
		},
	}
}

// sourceCommand handles source catalog operations
func sourceCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotify",
		Aliases: []string{"source", "spot"},
		Usage:   "Source catalog operations",
		Commands: []*cli.Command{
			{
				Name:  "playlists",
				Usage: "List source playlists",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of playlists to show",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save listing to spotify_playlists.json",
					},
				},
				Action: r.SourcePlaylists,
			},
			{
				Name:  "tracks",
				Usage: "List tracks in a source playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SourceTracks,
			},
		},
	}
}

// destCommand exposes destination operations for debugging a migration.
func destCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "dest",
		Aliases: []string{"ytmusic", "ytm"},
		Usage:   "Destination operations",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search the destination for track candidates",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "title"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Artist name to include in the query",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of candidates",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.DestSearch,
			},
			{
				Name:  "create",
				Usage: "Create a playlist on the destination",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "description",
						Usage: "Playlist description",
					},
					&cli.BoolFlag{
						Name:  "public",
						Usage: "Make playlist public",
					},
				},
				Action: r.DestCreate,
			},
			{
				Name:  "delete",
				Usage: "Delete a playlist on the destination",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID to delete",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Skip confirmation",
					},
				},
				Action: r.DestDelete,
			},
		},
	}
}

// matchCommand exposes the scoring pipeline for a single track pair.
func matchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "match",
		Usage: "Inspect track matching",
		Commands: []*cli.Command{
			{
				Name:  "score",
				Usage: "Score a destination candidate against a source track",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Source track title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "artist",
						Usage:    "Source track artist",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "candidate-title",
						Usage:    "Candidate title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "candidate-artist",
						Usage:    "Candidate artist",
						Required: true,
					},
				},
				Action: r.MatchScore,
			},
			{
				Name:  "probe",
				Usage: "Search the destination and score every candidate",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Source track title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "artist",
						Usage:    "Source track artist",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of candidates",
						Value: 5,
					},
				},
				Action: r.MatchProbe,
			},
		},
	}
}

// migrateCommand handles migration runs and history.
func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Migrate playlists to the destination",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Migrate playlists from source to destination",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "playlist",
						Aliases: []string{"p"},
						Usage:   "Playlist ID to migrate (repeatable, default all)",
					},
					&cli.StringFlag{
						Name:  "export",
						Usage: "Base path for report and unmatched-track exports",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the summary as JSON instead of text",
					},
					&cli.BoolFlag{
						Name:  "no-history",
						Usage: "Skip recording results in the local database",
					},
				},
				Action: r.MigrateRun,
			},
			{
				Name:  "history",
				Usage: "List recorded migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status (completed or failed)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.MigrateHistory,
			},
			{
				Name:  "forget",
				Usage: "Remove a migration record",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Migration record ID",
						Required: true,
					},
				},
				Action: r.MigrateForget,
			},
		},
	}
}

// serveCommand runs the HTTP migration server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP server with the streaming migration endpoint",
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive migrations.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for playlist migration",
		Action:  r.TUI,
	}
}
