// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output", Value: true},
	}
}

func viewFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "filter", Aliases: []string{"f"}, Usage: "Only include items whose title contains this text"},
		&cli.StringFlag{Name: "sort", Aliases: []string{"s"}, Usage: "Item order: default, alpha or rating", Value: "default"},
	}
}

// setupCommand handles setup operations for the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Write config.toml if missing, then initialize the database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// registerCommand creates an account.
func registerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Unique username"},
			&cli.StringFlag{Name: "name", Usage: "Full name"},
			&cli.StringFlag{Name: "email", Usage: "Email address"},
			&cli.StringFlag{Name: "avatar", Usage: "Avatar image URL"},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Password (6+ characters with a letter and a digit)"},
			&cli.StringFlag{Name: "confirm", Usage: "Password confirmation"},
		},
		Action: r.Register,
	}
}

// loginCommand starts a session.
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in for this session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Username"},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Password"},
			&cli.StringFlag{Name: "next", Usage: "Encoded location to resume after login"},
		},
		Action: r.Login,
	}
}

// logoutCommand ends the session.
func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Log out of this session",
		Action: r.Logout,
	}
}

// whoamiCommand shows the session identity.
func whoamiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the logged-in user",
		Flags:  jsonFlags(),
		Action: r.Whoami,
	}
}

// apiKeyCommand manages the YouTube Data API key used for search.
func apiKeyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "apikey",
		Usage: "Manage the YouTube Data API key",
		Commands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Save an API key",
				Arguments: []cli.Argument{&cli.StringArg{Name: "key"}},
				Action:    r.APIKeySet,
			},
			{
				Name:   "show",
				Usage:  "Show whether an API key is saved",
				Action: r.APIKeyShow,
			},
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "log-level", Usage: "Log level: debug, info, warn, error or fatal"},
		&cli.BoolFlag{Name: "verbose", Usage: "Shorthand for --log-level debug"},
	}
}

// searchCommand queries the remote catalog.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search YouTube for videos",
		ArgsUsage: "<query words...>",
		Flags: append(jsonFlags(),
			&cli.StringFlag{Name: "add-to", Usage: "Playlist ID to add a result to"},
			&cli.IntFlag{Name: "pick", Usage: "Result number to add with --add-to", Value: 1},
		),
		Action: r.Search,
	}
}

// playlistCommand handles playlist operations.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"playlists", "pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List your playlists, newest first",
				Flags:  jsonFlags(),
				Action: r.PlaylistList,
			},
			{
				Name:      "create",
				Usage:     "Create an empty playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.PlaylistCreate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a playlist and all its items",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.PlaylistDelete,
			},
			{
				Name:      "show",
				Usage:     "Show a playlist's items",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     append(jsonFlags(), viewFlags()...),
				Action:    r.PlaylistShow,
			},
			{
				Name:      "export",
				Usage:     "Export playlists to csv, md, txt or json files",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: append(viewFlags(),
					&cli.BoolFlag{Name: "all", Usage: "Export every playlist"},
					&cli.StringFlag{Name: "format", Usage: "Export format: csv, md, txt or json", Value: "json"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory"},
					&cli.IntFlag{Name: "workers", Usage: "Concurrent export workers (max 10)", Value: 5},
					&cli.FloatFlag{Name: "rate", Usage: "Playlists dispatched per second", Value: 5},
					&cli.BoolFlag{Name: "cover", Usage: "Markdown only: download the first thumbnail as cover.jpg"},
				),
				Action: r.PlaylistExport,
			},
		},
	}
}

// itemCommand handles playlist item operations.
func itemCommand(r *Runner) *cli.Command {
	playlistArg := func() cli.Argument { return &cli.StringArg{Name: "playlist"} }
	return &cli.Command{
		Name:  "item",
		Usage: "Playlist item operations",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a video to a playlist",
				Arguments: []cli.Argument{playlistArg(), &cli.StringArg{Name: "video"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "Video title"},
					&cli.StringFlag{Name: "channel", Usage: "Channel title"},
					&cli.StringFlag{Name: "thumbnail", Usage: "Thumbnail URL"},
					&cli.StringFlag{Name: "duration", Usage: "ISO-8601 duration, e.g. PT3M20S"},
					&cli.StringFlag{Name: "views", Usage: "View count"},
				},
				Action: r.ItemAdd,
			},
			{
				Name:      "rate",
				Usage:     "Rate a playlist item from 0 to 5",
				Arguments: []cli.Argument{playlistArg(), &cli.StringArg{Name: "item"}, &cli.StringArg{Name: "rating"}},
				Action:    r.ItemRate,
			},
			{
				Name:      "remove",
				Usage:     "Remove an item from a playlist",
				Arguments: []cli.Argument{playlistArg(), &cli.StringArg{Name: "item"}},
				Action:    r.ItemRemove,
			},
		},
	}
}

// playCommand plays a playlist's visible items.
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "Show the play queue for a playlist and optionally open the current video",
		Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
		Flags: append(viewFlags(),
			&cli.IntFlag{Name: "index", Aliases: []string{"i"}, Usage: "Queue position to start at (1-based)", Value: 1},
			&cli.BoolFlag{Name: "open", Usage: "Open the current video in the browser"},
		),
		Action: r.Play,
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing your playlists",
		Action:  r.TUI,
	}
}

// serveCommand runs the JSON API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the library as a JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address (default from config)"},
			&cli.BoolFlag{Name: "open", Usage: "Open the health endpoint in the browser"},
		},
		Action: r.Serve,
	}
}
