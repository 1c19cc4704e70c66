// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playlists/internal/models"
	"github.com/desertthunder/playlists/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyBaseURL   = "https://api.spotify.com/v1"
	maxPageLimit     = 50
	defaultTimeout   = 30 * time.Second
	defaultRateLimit = 10.0

	// tracksFields restricts the playlist lookup to its item page and cursor.
	tracksFields = "tracks,next"
)

// SpotifyOpts contains configuration options for creating a [SpotifyService].
type SpotifyOpts struct {
	BaseURL           string
	Token             *oauth2.Token
	HTTPClient        *http.Client
	Timeout           time.Duration
	RequestsPerSecond float64
	Logger            *log.Logger
}

// SpotifyService implements the Service interface for Spotify API interactions.
type SpotifyService struct {
	baseURL    string
	token      *oauth2.Token
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewSpotifyService creates a new Spotify service authenticated with the given token.
//
// A supplied HTTPClient is copied so the per-request timeout never leaks into the caller's client.
func NewSpotifyService(opts SpotifyOpts) (*SpotifyService, error) {
	if opts.Token == nil || opts.Token.AccessToken == "" {
		return nil, fmt.Errorf("%w: missing access token", shared.ErrNotAuthenticated)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultRateLimit
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	client := &http.Client{}
	if opts.HTTPClient != nil {
		*client = *opts.HTTPClient
	}
	client.Timeout = opts.Timeout

	return &SpotifyService{
		baseURL:    opts.BaseURL,
		token:      opts.Token,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		logger:     opts.Logger,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// doRequest performs an authenticated GET against an absolute API URL and decodes the JSON body into result.
func (s *SpotifyService) doRequest(ctx context.Context, apiURL string, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
	req.Header.Set("Accept", "application/json")

	s.logger.Debug("spotify request", "url", apiURL)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: spotify API error: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrParse, err)
	}

	return nil
}

// UserPlaylists retrieves a user's playlists with pagination.
func (s *SpotifyService) UserPlaylists(ctx context.Context, username string, limit, offset int) (*models.PlaylistPage, error) {
	if limit <= 0 || limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	endpoint := fmt.Sprintf("%s/users/%s/playlists?limit=%d&offset=%d", s.baseURL, url.PathEscape(username), limit, offset)

	var page models.PlaylistPage
	if err := s.doRequest(ctx, endpoint, &page); err != nil {
		return nil, err
	}

	if err := page.Validate(); err != nil {
		return nil, err
	}

	return &page, nil
}

// PlaylistTracks retrieves the first page of a playlist's items, asking only for the tracks field.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string) (*models.TrackPage, error) {
	endpoint := fmt.Sprintf("%s/playlists/%s?fields=%s", s.baseURL, url.PathEscape(playlistID), url.QueryEscape(tracksFields))

	var response struct {
		Tracks *models.TrackPage `json:"tracks"`
	}
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	if response.Tracks == nil {
		return nil, fmt.Errorf("%w: playlist %s response has no tracks", shared.ErrParse, playlistID)
	}

	if err := response.Tracks.Validate(); err != nil {
		return nil, fmt.Errorf("playlist %s: %w", playlistID, err)
	}

	return response.Tracks, nil
}

// NextTracks follows a tracks page cursor.
func (s *SpotifyService) NextTracks(ctx context.Context, next string) (*models.TrackPage, error) {
	u, err := url.Parse(next)
	if err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("%w: invalid page cursor %q", shared.ErrParse, next)
	}

	var page models.TrackPage
	if err := s.doRequest(ctx, u.String(), &page); err != nil {
		return nil, err
	}

	if err := page.Validate(); err != nil {
		return nil, err
	}

	return &page, nil
}
