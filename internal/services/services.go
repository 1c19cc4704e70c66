// package services defines interface Service for reading playlists from a music API
//
// Spotify
package services

import (
	"context"

	"github.com/desertthunder/playlists/internal/models"
)

// Service defines the paginated reads the export pipeline needs from a music provider.
type Service interface {
	// UserPlaylists retrieves one offset page of the playlists visible on a user's profile.
	UserPlaylists(ctx context.Context, username string, limit, offset int) (*models.PlaylistPage, error)

	// PlaylistTracks retrieves the first page of a playlist's items.
	PlaylistTracks(ctx context.Context, playlistID string) (*models.TrackPage, error)

	// NextTracks follows a page cursor returned by PlaylistTracks or a previous NextTracks call.
	NextTracks(ctx context.Context, next string) (*models.TrackPage, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}
