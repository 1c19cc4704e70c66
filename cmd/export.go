package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playlists/internal/auth"
	"github.com/desertthunder/playlists/internal/repositories"
	"github.com/desertthunder/playlists/internal/services"
	"github.com/desertthunder/playlists/internal/shared"
	"github.com/desertthunder/playlists/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export authenticates as the given user and writes every playlist they own to the cache and output directories.
//
// The argument count is checked before anything else so a bad invocation touches neither the network nor the disk.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("init-config") {
		return r.InitConfig(cmd.String("config"))
	}

	args := cmd.Args().Slice()
	if len(args) != 4 {
		r.writeErr("%s", usageLine)
		return fmt.Errorf("%w: expected 4 arguments, got %d", shared.ErrMissingArgument, len(args))
	}
	username, clientID, clientSecret, redirectURI := args[0], args[1], args[2], args[3]

	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := shared.WithLogger(r.logger, "username", username)

	authenticator, err := r.newAuthenticator(auth.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  redirectURI,
		AuthURL:      config.Auth.AuthURL,
		TokenURL:     config.Auth.TokenURL,
		CacheDir:     config.Auth.TokenCacheDir,
		Timeout:      config.Auth.Timeout(),
		OpenBrowser:  config.Auth.OpenBrowser,
	}, logger, r.output)
	if err != nil {
		r.writeErr("%s", r.palette.Err("Can't get token for "+username))
		return fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	token, err := authenticator.Authenticate(ctx, username)
	if err != nil {
		if errors.Is(err, shared.ErrAuthFailed) {
			r.writeErr("%s", r.palette.Err("Can't get token for "+username))
		}
		return err
	}

	srv, err := services.NewSpotifyService(services.SpotifyOpts{
		BaseURL:           config.API.BaseURL,
		Token:             token,
		HTTPClient:        r.httpClient,
		Timeout:           config.API.Timeout(),
		RequestsPerSecond: config.API.RequestsPerSecond,
		Logger:            logger,
	})
	if err != nil {
		r.writeErr("%s", r.palette.Err("Can't get token for "+username))
		return fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	recorder, closeHistory := r.openHistory(ctx, config.Database)
	defer closeHistory()

	exporter := tasks.NewExporter(srv, tasks.ExporterOpts{
		PageSize:  config.API.PageSize,
		MaxPages:  config.API.MaxPages,
		CacheDir:  config.Output.CacheDir,
		OutputDir: config.Output.PlaylistsDir,
		Notifier:  r,
		Recorder:  recorder,
		Logger:    logger,
	})

	result, err := exporter.Run(ctx, username)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	return r.writePlainln("%s", r.palette.Title(fmt.Sprintf("✓ Exported %d playlists for %s (%d skipped)", len(result.Exported), username, result.Skipped)))
}

// InitConfig writes the example configuration to path.
func (r *Runner) InitConfig(path string) error {
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)
	return r.writePlain("✓ Wrote %s\n", path)
}

// loadConfig reads the config file when present and applies flag overrides.
//
// A missing file is only an error when --config was given explicitly.
func loadConfig(cmd *cli.Command) (*shared.Config, error) {
	path := cmd.String("config")

	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if config, err = shared.LoadConfig(path); err != nil {
			return nil, err
		}
	} else if cmd.IsSet("config") {
		return nil, fmt.Errorf("%w: config file %s not found", shared.ErrInvalidConfig, path)
	}

	if cmd.IsSet("cache-dir") {
		config.Output.CacheDir = cmd.String("cache-dir")
	}
	if cmd.IsSet("output-dir") {
		config.Output.PlaylistsDir = cmd.String("output-dir")
	}
	if cmd.IsSet("page-size") {
		config.API.PageSize = int(cmd.Int("page-size"))
	}
	if cmd.IsSet("max-pages") {
		config.API.MaxPages = int(cmd.Int("max-pages"))
	}
	if cmd.IsSet("timeout") {
		config.API.TimeoutSeconds = int(cmd.Int("timeout"))
	}
	if cmd.IsSet("database") {
		config.Database.Path = cmd.String("database")
	}
	if cmd.Bool("no-browser") {
		config.Auth.OpenBrowser = false
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// openHistory opens the run history database. History is optional: failures are logged and disable it.
func (r *Runner) openHistory(ctx context.Context, cfg shared.DatabaseConfig) (tasks.Recorder, func()) {
	if cfg.Path == "" {
		return nil, func() {}
	}

	db, err := shared.OpenHistory(ctx, cfg)
	if err != nil {
		r.logger.Warn("run history disabled", "path", cfg.Path, "error", err)
		return nil, func() {}
	}

	return repositories.NewHistory(db), func() { db.Close() }
}
