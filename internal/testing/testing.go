// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/desertthunder/playlists/internal/models"
	"github.com/desertthunder/playlists/internal/shared"
)

const mockCursorPrefix = "mock://tracks/"

// MockService is an in-memory test double for [services.Service].
//
// Playlists are served in order, Tracks holds every item of a playlist and is split into pages of TrackPageSize.
type MockService struct {
	Playlists        []models.Playlist
	Tracks           map[string][]models.Item
	TrackPageSize    int
	EndlessPlaylists bool // every listing page repeats Playlists
	EndlessTracks    bool // every track page carries a next cursor
	PlaylistsErr     error
	TracksErr        error
	Calls            []string
}

func (m *MockService) UserPlaylists(ctx context.Context, username string, limit, offset int) (*models.PlaylistPage, error) {
	m.Calls = append(m.Calls, fmt.Sprintf("UserPlaylists %s %d %d", username, limit, offset))
	if m.PlaylistsErr != nil {
		return nil, m.PlaylistsErr
	}

	page := &models.PlaylistPage{Total: len(m.Playlists), Limit: limit, Offset: offset}
	var window []models.Playlist
	switch {
	case m.EndlessPlaylists:
		window = m.Playlists
	case offset < len(m.Playlists):
		window = m.Playlists[offset:min(offset+limit, len(m.Playlists))]
	}

	for _, pl := range window {
		listed := pl
		listed.Tracks = models.PlaylistTracks{Total: pl.Tracks.Total}
		if items, ok := m.Tracks[pl.ID]; ok {
			listed.Tracks.Total = len(items)
		}
		page.Items = append(page.Items, listed)
	}

	return page, nil
}

func (m *MockService) PlaylistTracks(ctx context.Context, playlistID string) (*models.TrackPage, error) {
	m.Calls = append(m.Calls, "PlaylistTracks "+playlistID)
	if m.TracksErr != nil {
		return nil, m.TracksErr
	}
	return m.trackPage(playlistID, 0), nil
}

func (m *MockService) NextTracks(ctx context.Context, next string) (*models.TrackPage, error) {
	m.Calls = append(m.Calls, "NextTracks "+next)
	if m.TracksErr != nil {
		return nil, m.TracksErr
	}

	rest, ok := strings.CutPrefix(next, mockCursorPrefix)
	i := strings.LastIndex(rest, "/")
	if !ok || i < 0 {
		return nil, fmt.Errorf("%w: invalid page cursor %q", shared.ErrParse, next)
	}
	n, err := strconv.Atoi(rest[i+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid page cursor %q", shared.ErrParse, next)
	}

	return m.trackPage(rest[:i], n), nil
}

func (m *MockService) Name() string { return "mock" }

// CallCount returns how many recorded calls start with prefix.
func (m *MockService) CallCount(prefix string) int {
	count := 0
	for _, c := range m.Calls {
		if strings.HasPrefix(c, prefix) {
			count++
		}
	}
	return count
}

func (m *MockService) trackPage(playlistID string, n int) *models.TrackPage {
	size := m.TrackPageSize
	if size <= 0 {
		size = 100
	}

	items := m.Tracks[playlistID]
	start := min(n*size, len(items))
	end := min(start+size, len(items))

	page := &models.TrackPage{
		Items:  slices.Clone(items[start:end]),
		Total:  len(items),
		Limit:  size,
		Offset: start,
	}
	if m.EndlessTracks || end < len(items) {
		next := fmt.Sprintf("%s%s/%d", mockCursorPrefix, playlistID, n+1)
		page.Next = &next
	}
	return page
}

// NewPlaylist builds a listed playlist with Spotify-style URLs.
func NewPlaylist(id, name, owner string) models.Playlist {
	return models.Playlist{
		ID:   id,
		Name: name,
		Owner: models.Owner{
			ID:           owner,
			DisplayName:  owner,
			ExternalURLs: models.ExternalURLs{Spotify: "https://open.spotify.com/user/" + owner},
		},
		ExternalURLs: models.ExternalURLs{Spotify: "https://open.spotify.com/playlist/" + id},
	}
}

// NewItem builds a playlist item for a single-artist track.
func NewItem(artist, name string, durationMS int64) models.Item {
	return models.Item{Track: &models.Track{
		Name:       name,
		Artists:    []models.Artist{{Name: artist}},
		DurationMS: durationMS,
	}}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected no file at %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
