// Package auth obtains a user-scoped Spotify access token through the OAuth2 authorization code flow.
//
// Client credentials are passed in through [Config]; nothing is read from or written to the process environment.
// A token from a previous run is reused from the per-user token cache while it is still valid. Expired tokens
// are never refreshed; the user is sent through authorization again.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playlists/internal/server"
	"github.com/desertthunder/playlists/internal/shared"
	"golang.org/x/oauth2"
)

// Scope is the permission requested for every token.
const Scope = "playlist-read-private"

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	defaultTimeout  = 2 * time.Minute
)

// Config carries the API-issued secrets and flow settings for an [Authenticator].
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	AuthURL     string        // defaults to the Spotify accounts service
	TokenURL    string        // defaults to the Spotify accounts service
	CacheDir    string        // directory holding .cache-<username>; empty disables the cache
	Timeout     time.Duration // how long to wait for the callback
	OpenBrowser bool          // launch the system browser instead of only printing the URL
}

// Authenticator runs the authorization flow for a single set of client credentials.
type Authenticator struct {
	config Config
	oauth  *oauth2.Config
	logger *log.Logger
	output io.Writer
	open   func(string) error
}

// Option customizes an [Authenticator].
type Option func(*Authenticator)

// WithOutput sets where user-facing instructions are written. Defaults to [os.Stdout].
func WithOutput(w io.Writer) Option {
	return func(a *Authenticator) { a.output = w }
}

// WithBrowser replaces the function used to open the authorization URL.
func WithBrowser(open func(string) error) Option {
	return func(a *Authenticator) { a.open = open }
}

// New validates config and returns an [Authenticator].
func New(config Config, logger *log.Logger, opts ...Option) (*Authenticator, error) {
	if config.ClientID == "" || config.ClientSecret == "" || config.RedirectURI == "" {
		return nil, fmt.Errorf("%w: client_id, client_secret and redirect_uri are required", shared.ErrMissingCredentials)
	}
	if _, err := callbackAddr(config.RedirectURI); err != nil {
		return nil, err
	}

	if config.AuthURL == "" {
		config.AuthURL = spotifyAuthURL
	}
	if config.TokenURL == "" {
		config.TokenURL = spotifyTokenURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	a := &Authenticator{
		config: config,
		oauth: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURI,
			Scopes:       []string{Scope},
			Endpoint: oauth2.Endpoint{
				AuthURL:  config.AuthURL,
				TokenURL: config.TokenURL,
			},
		},
		logger: logger,
		output: os.Stdout,
		open:   shared.OpenBrowser,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Authenticate returns an access token for username.
//
// A valid cached token is returned without user interaction. Otherwise the authorization code flow runs once;
// any failure returns a nil token and an error wrapping [shared.ErrAuthFailed], except a canceled ctx,
// which is returned as the context's own error.
func (a *Authenticator) Authenticate(ctx context.Context, username string) (*oauth2.Token, error) {
	logger := shared.WithLogger(a.logger, "username", username)

	if token := a.cachedToken(username); token != nil {
		logger.Debug("using cached token")
		return token, nil
	}

	token, err := a.authorize(ctx, logger)
	if err != nil && ctx.Err() != nil {
		return nil, fmt.Errorf("authorization interrupted: %w", ctx.Err())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := a.saveToken(username, token); err != nil {
		logger.Warn("failed to cache token", "error", err)
	}

	return token, nil
}

// AuthURL returns the URL the user is sent to for the given state.
func (a *Authenticator) AuthURL(state string) string {
	return a.oauth.AuthCodeURL(state)
}

// authorize executes the OAuth2 authorization flow with a local HTTP server
func (a *Authenticator) authorize(ctx context.Context, logger *log.Logger) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	addr, _ := callbackAddr(a.config.RedirectURI)
	redirect, _ := url.Parse(a.config.RedirectURI)

	handler := server.NewOAuthHandler(a.oauth, state, redirect.Path)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(logger))
	router.Handler(handler)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	httpServer := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	serverErrors := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("error shutting down callback server", "error", err)
		}
	}()

	logger.Info("waiting for authorization callback", "addr", addr)

	authURL := a.AuthURL(state)
	if a.config.OpenBrowser {
		fmt.Fprintln(a.output, "→ Opening browser for Spotify authorization...")
		if err := a.open(authURL); err != nil {
			logger.Warn("failed to open browser automatically", "error", err)
			fmt.Fprintf(a.output, "Please open this URL in your browser:\n%s\n\n", authURL)
		}
	} else {
		fmt.Fprintf(a.output, "Please open this URL in your browser:\n%s\n\n", authURL)
	}

	timeout := time.NewTimer(a.config.Timeout)
	defer timeout.Stop()

	var result server.CallbackResult
	select {
	case result = <-handler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("callback server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: no callback after %v", shared.ErrTimeout, a.config.Timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if result.Err != nil {
		return nil, result.Err
	}
	return result.Token, nil
}

// callbackAddr derives the listen address from the redirect URI.
func callbackAddr(redirectURI string) (string, error) {
	u, err := url.Parse(redirectURI)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: redirect_uri %q is not an absolute URL", shared.ErrInvalidArgument, redirectURI)
	}
	if u.Scheme != "http" {
		return "", fmt.Errorf("%w: redirect_uri must use http for the local callback server, got %q", shared.ErrInvalidArgument, u.Scheme)
	}

	port := u.Port()
	if port == "" {
		port = "80"
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}
