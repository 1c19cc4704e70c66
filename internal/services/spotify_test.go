package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playlists/internal/shared"
	tu "github.com/desertthunder/playlists/internal/testing"
	"golang.org/x/oauth2"
)

func newTestService(t *testing.T, baseURL string, client *http.Client) *SpotifyService {
	t.Helper()
	srv, err := NewSpotifyService(SpotifyOpts{
		BaseURL:           baseURL,
		Token:             &oauth2.Token{AccessToken: "test-token"},
		HTTPClient:        client,
		RequestsPerSecond: 1000,
		Logger:            log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return srv
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("Missing Token", func(t *testing.T) {
			_, err := NewSpotifyService(SpotifyOpts{})
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}

			_, err = NewSpotifyService(SpotifyOpts{Token: &oauth2.Token{}})
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated for empty token, got %v", err)
			}
		})

		t.Run("Defaults", func(t *testing.T) {
			srv, err := NewSpotifyService(SpotifyOpts{Token: &oauth2.Token{AccessToken: "t"}})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.baseURL != spotifyBaseURL {
				t.Errorf("expected default base URL, got %s", srv.baseURL)
			}
			if srv.httpClient.Timeout != defaultTimeout {
				t.Errorf("expected default timeout, got %v", srv.httpClient.Timeout)
			}
			if srv.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", srv.Name())
			}
		})

		t.Run("Caller Client Is Not Mutated", func(t *testing.T) {
			caller := &http.Client{}
			srv, err := NewSpotifyService(SpotifyOpts{
				Token:      &oauth2.Token{AccessToken: "t"},
				HTTPClient: caller,
				Timeout:    5 * time.Second,
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if caller.Timeout != 0 {
				t.Errorf("caller client timeout changed to %v", caller.Timeout)
			}
			if srv.httpClient.Timeout != 5*time.Second {
				t.Errorf("expected 5s timeout, got %v", srv.httpClient.Timeout)
			}
		})

		t.Run("Service Interface", func(t *testing.T) {
			var _ Service = newTestService(t, "", nil)
		})
	})

	t.Run("UserPlaylists", func(t *testing.T) {
		t.Run("Request Shape", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/users/alice/playlists" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.URL.Query().Get("limit") != "50" || r.URL.Query().Get("offset") != "100" {
					t.Errorf("unexpected query %s", r.URL.RawQuery)
				}
				if r.Header.Get("Authorization") != "Bearer test-token" {
					t.Errorf("unexpected authorization header %q", r.Header.Get("Authorization"))
				}
				w.Write([]byte(`{"items":[{"id":"p1","name":"Road Trip","owner":{"id":"alice","display_name":"Alice","external_urls":{"spotify":"https://open.spotify.com/user/alice"}},"tracks":{"href":"x","total":2},"external_urls":{"spotify":"https://open.spotify.com/playlist/p1"},"images":[{"url":"https://i.scdn.co/cover","height":640,"width":640}],"public":true}],"total":101,"limit":50,"offset":100,"next":null}`))
			}))
			defer server.Close()

			srv := newTestService(t, server.URL, nil)
			page, err := srv.UserPlaylists(context.Background(), "alice", 50, 100)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(page.Items) != 1 {
				t.Fatalf("expected 1 playlist, got %d", len(page.Items))
			}
			p := page.Items[0]
			if p.ID != "p1" || p.Name != "Road Trip" || p.Owner.ID != "alice" || p.Tracks.Total != 2 {
				t.Errorf("unexpected playlist %+v", p)
			}
			if p.CoverURL() != "https://i.scdn.co/cover" {
				t.Errorf("unexpected cover %q", p.CoverURL())
			}
			if page.Next != nil {
				t.Errorf("expected nil next, got %v", *page.Next)
			}
		})

		t.Run("Limit Is Clamped", func(t *testing.T) {
			var limits []string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				limits = append(limits, r.URL.Query().Get("limit"))
				w.Write([]byte(`{"items":[]}`))
			}))
			defer server.Close()

			srv := newTestService(t, server.URL, nil)
			for _, limit := range []int{0, 500, 20} {
				if _, err := srv.UserPlaylists(context.Background(), "alice", limit, 0); err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
			}

			if strings.Join(limits, ",") != "50,50,20" {
				t.Errorf("expected clamped limits 50,50,20, got %v", limits)
			}
		})

		t.Run("Username Is Escaped", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.EscapedPath() != "/users/a%2Fb/playlists" {
					t.Errorf("expected escaped username, got %s", r.URL.EscapedPath())
				}
				w.Write([]byte(`{"items":[]}`))
			}))
			defer server.Close()

			srv := newTestService(t, server.URL, nil)
			if _, err := srv.UserPlaylists(context.Background(), "a/b", 50, 0); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Missing Owner Fails Fast", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"items":[{"id":"p1","name":"Orphan"}]}`))
			}))
			defer server.Close()

			srv := newTestService(t, server.URL, nil)
			_, err := srv.UserPlaylists(context.Background(), "alice", 50, 0)
			if !errors.Is(err, shared.ErrParse) {
				t.Errorf("expected ErrParse, got %v", err)
			}
		})
	})

	t.Run("PlaylistTracks", func(t *testing.T) {
		t.Run("Requests Only Tracks", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/playlists/p1" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.URL.Query().Get("fields") != "tracks,next" {
					t.Errorf("unexpected fields %q", r.URL.Query().Get("fields"))
				}
				fmt.Fprintf(w, `{"tracks":{"items":[{"track":{"name":"Song A","artists":[{"name":"Artist1"}],"duration_ms":200000}}],"total":2,"limit":1,"offset":0,"next":"%s/playlists/p1/tracks?offset=1&limit=1"}}`, "http://"+r.Host)
			}))
			defer server.Close()

			srv := newTestService(t, server.URL, nil)
			page, err := srv.PlaylistTracks(context.Background(), "p1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(page.Items) != 1 || page.Items[0].Track.Name != "Song A" {
				t.Errorf("unexpected items %+v", page.Items)
			}
			if !page.HasNext() {
				t.Error("expected a next cursor")
			}
		})

		t.Run("Missing Tracks", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			}))
			defer server.Close()

			srv := newTestService(t, server.URL, nil)
			_, err := srv.PlaylistTracks(context.Background(), "p1")
			if !errors.Is(err, shared.ErrParse) {
				t.Errorf("expected ErrParse, got %v", err)
			}
		})

		t.Run("Null Track", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"tracks":{"items":[{"track":null}],"next":null}}`))
			}))
			defer server.Close()

			srv := newTestService(t, server.URL, nil)
			_, err := srv.PlaylistTracks(context.Background(), "p1")
			if !errors.Is(err, shared.ErrParse) {
				t.Errorf("expected ErrParse, got %v", err)
			}
		})
	})

	t.Run("NextTracks", func(t *testing.T) {
		t.Run("Follows Cursor Verbatim", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/playlists/p1/tracks" || r.URL.Query().Get("offset") != "100" {
					t.Errorf("unexpected request %s", r.URL.String())
				}
				w.Write([]byte(`{"items":[{"track":{"name":"Song B","artists":[{"name":"Artist2"}],"duration_ms":130999}}],"next":null}`))
			}))
			defer server.Close()

			srv := newTestService(t, "http://unused.invalid", nil)
			page, err := srv.NextTracks(context.Background(), server.URL+"/playlists/p1/tracks?offset=100&limit=100")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if page.HasNext() {
				t.Error("expected exhausted cursor")
			}
			if page.Items[0].Track.PrimaryArtist() != "Artist2" {
				t.Errorf("unexpected item %+v", page.Items[0].Track)
			}
		})

		t.Run("Relative Cursor", func(t *testing.T) {
			srv := newTestService(t, "", nil)
			_, err := srv.NextTracks(context.Background(), "/playlists/p1/tracks")
			if !errors.Is(err, shared.ErrParse) {
				t.Errorf("expected ErrParse, got %v", err)
			}
		})
	})

	t.Run("Errors", func(t *testing.T) {
		t.Run("Non 2xx Status", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":{"status":401,"message":"The access token expired"}}`))
			}))
			defer server.Close()

			srv := newTestService(t, server.URL, nil)
			_, err := srv.UserPlaylists(context.Background(), "alice", 50, 0)
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
			if !errors.Is(err, shared.ErrTransport) {
				t.Errorf("expected API errors to be transport failures, got %v", err)
			}
			if !strings.Contains(err.Error(), "401") {
				t.Errorf("expected status in error, got %v", err)
			}
		})

		t.Run("Transport Failure", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
			srv := newTestService(t, "http://example.com", client)

			_, err := srv.PlaylistTracks(context.Background(), "p1")
			if !errors.Is(err, shared.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", err)
			}
		})

		t.Run("Body Read Failure", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(&http.Response{
				StatusCode: http.StatusOK,
				Body:       &tu.FCloser{},
				Header:     make(http.Header),
			}, nil)}
			srv := newTestService(t, "http://example.com", client)

			_, err := srv.UserPlaylists(context.Background(), "alice", 50, 0)
			if !errors.Is(err, shared.ErrParse) {
				t.Errorf("expected ErrParse, got %v", err)
			}
		})

		t.Run("Malformed JSON", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"items": [`))
			}))
			defer server.Close()

			srv := newTestService(t, server.URL, nil)
			_, err := srv.UserPlaylists(context.Background(), "alice", 50, 0)
			if !errors.Is(err, shared.ErrParse) {
				t.Errorf("expected ErrParse, got %v", err)
			}
		})

		t.Run("Timeout", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
				w.Write([]byte(`{"items":[]}`))
			}))
			defer server.Close()

			srv, err := NewSpotifyService(SpotifyOpts{
				BaseURL: server.URL,
				Token:   &oauth2.Token{AccessToken: "t"},
				Timeout: 20 * time.Millisecond,
				Logger:  log.New(io.Discard),
			})
			if err != nil {
				t.Fatalf("failed to create service: %v", err)
			}

			_, err = srv.UserPlaylists(context.Background(), "alice", 50, 0)
			if !errors.Is(err, shared.ErrTransport) {
				t.Errorf("expected ErrTransport on timeout, got %v", err)
			}
		})

		t.Run("Canceled Context", func(t *testing.T) {
			srv := newTestService(t, "http://example.com", nil)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := srv.UserPlaylists(ctx, "alice", 50, 0)
			if !errors.Is(err, shared.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", err)
			}
		})
	})
}
