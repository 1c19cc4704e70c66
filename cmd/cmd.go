// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

const usageLine = "usage: playlists [flags] <username> <client_id> <client_secret> <redirect_uri>"

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "playlists",
		Usage:     "Export a Spotify user's playlists to JSON and Markdown",
		ArgsUsage: "<username> <client_id> <client_secret> <redirect_uri>",
		Version:   "0.1.0",
		Writer:    r.output,
		ErrWriter: r.errOutput,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "init-config",
				Usage: "Write the example configuration to --config and exit",
			},
			&cli.StringFlag{
				Name:  "cache-dir",
				Usage: "Directory for raw playlist JSON",
			},
			&cli.StringFlag{
				Name:  "output-dir",
				Usage: "Directory for Markdown summaries",
			},
			&cli.IntFlag{
				Name:  "page-size",
				Usage: "Playlists requested per page (1-50)",
			},
			&cli.IntFlag{
				Name:  "max-pages",
				Usage: "Give up after this many pages of a single listing",
			},
			&cli.IntFlag{
				Name:  "timeout",
				Usage: "Per-request timeout in seconds",
			},
			&cli.StringFlag{
				Name:  "database",
				Usage: "Run history database path (empty disables history)",
			},
			&cli.BoolFlag{
				Name:  "no-browser",
				Usage: "Print the authorization URL instead of opening a browser",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the run result as JSON",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Action: r.Export,
	}
}
