package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playlists/internal/auth"
	"github.com/desertthunder/playlists/internal/shared"
	"github.com/desertthunder/playlists/internal/tasks"
	"github.com/desertthunder/playlists/internal/ui"
	"golang.org/x/oauth2"
)

// Authenticator obtains an access token for a username.
type Authenticator interface {
	Authenticate(ctx context.Context, username string) (*oauth2.Token, error)
}

// AuthenticatorFactory builds an [Authenticator] from the run's credentials.
type AuthenticatorFactory func(config auth.Config, logger *log.Logger, output io.Writer) (Authenticator, error)

// Runner holds all dependencies for the CLI and provides the command action.
type Runner struct {
	logger           *log.Logger
	output           io.Writer
	errOutput        io.Writer
	palette          *ui.Palette
	httpClient       *http.Client
	newAuthenticator AuthenticatorFactory
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Logger           *log.Logger
	Output           io.Writer
	ErrOutput        io.Writer
	HTTPClient       *http.Client
	NewAuthenticator AuthenticatorFactory
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.NewAuthenticator == nil {
		opts.NewAuthenticator = newSpotifyAuthenticator
	}

	return &Runner{
		logger:           opts.Logger,
		output:           opts.Output,
		errOutput:        opts.ErrOutput,
		palette:          ui.ForWriter(opts.Output),
		httpClient:       opts.HTTPClient,
		newAuthenticator: opts.NewAuthenticator,
	}
}

func newSpotifyAuthenticator(config auth.Config, logger *log.Logger, output io.Writer) (Authenticator, error) {
	a, err := auth.New(config, logger, auth.WithOutput(output))
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Notify prints found, skipped and exported playlists and logs everything else at debug level.
func (r *Runner) Notify(update tasks.ProgressUpdate) {
	var err error
	switch update.Phase {
	case tasks.FoundPlaylist:
		err = r.writePlain("%s\n", r.palette.OK(update.Message))
	case tasks.SkipPlaylist:
		err = r.writePlain("%s\n", r.palette.Warn(update.Message))
	case tasks.ExportPlaylist:
		err = r.writePlain("  %s\n", r.palette.Help(update.Message))
	default:
		r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step)
	}
	if err != nil {
		r.logger.Debug("progress output failed", "error", err)
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if !pretty {
		if _, err := r.output.Write([]byte("\n")); err != nil {
			return fmt.Errorf("failed to write newline: %w", err)
		}
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeErr(format string, args ...any) {
	fmt.Fprintf(r.errOutput, format+"\n", args...)
}
