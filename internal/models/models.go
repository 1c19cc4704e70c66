// package models defines the data model for playlist exports
package models

import (
	"encoding/json"
	"fmt"

	"github.com/desertthunder/playlists/internal/shared"
)

// ExternalURLs holds the public web links Spotify attaches to most objects.
type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

// Image represents a cover image resource.
type Image struct {
	URL    string `json:"url"`
	Height *int   `json:"height"`
	Width  *int   `json:"width"`
}

// Owner identifies the user that owns a playlist.
type Owner struct {
	ID           string       `json:"id"`
	DisplayName  string       `json:"display_name"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// Name returns the display name, falling back to the user id.
func (o Owner) Name() string {
	if o.DisplayName != "" {
		return o.DisplayName
	}
	return o.ID
}

// Artist represents a credited artist. Only the name is kept.
type Artist struct {
	Name string `json:"name"`
}

// Track represents a Spotify track.
type Track struct {
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	DurationMS int64    `json:"duration_ms"`
}

// PrimaryArtist returns the first credited artist.
func (t *Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0].Name
}

// Validate checks the fields rendering depends on.
func (t *Track) Validate() error {
	if len(t.Artists) == 0 {
		return fmt.Errorf("%w: track %q has no artists", shared.ErrParse, t.Name)
	}
	if t.DurationMS < 0 {
		return fmt.Errorf("%w: track %q has negative duration %d", shared.ErrParse, t.Name, t.DurationMS)
	}
	return nil
}

// Item wraps the track of a playlist entry, mirroring the API's nesting.
type Item struct {
	Track *Track `json:"track"`

	raw json.RawMessage
}

// Validate checks that the item carries a track.
func (i *Item) Validate() error {
	if i.Track == nil {
		return fmt.Errorf("%w: playlist item has no track", shared.ErrParse)
	}
	return i.Track.Validate()
}

// PlaylistTracks is the track listing of a playlist: the reported total and,
// once hydrated, every item in server order.
type PlaylistTracks struct {
	Total int    `json:"total"`
	Items []Item `json:"items"`
}

// Playlist represents a Spotify playlist.
type Playlist struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Owner        Owner          `json:"owner"`
	Tracks       PlaylistTracks `json:"tracks"`
	ExternalURLs ExternalURLs   `json:"external_urls"`
	Images       []Image        `json:"images"`

	raw json.RawMessage
}

// Validate checks the identifying fields of a listed playlist.
func (p *Playlist) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: playlist %q has no id", shared.ErrParse, p.Name)
	}
	if p.Owner.ID == "" {
		return fmt.Errorf("%w: playlist %s has no owner id", shared.ErrParse, p.ID)
	}
	for i := range p.Tracks.Items {
		if err := p.Tracks.Items[i].Validate(); err != nil {
			return fmt.Errorf("playlist %s item %d: %w", p.ID, i, err)
		}
	}
	return nil
}

// CoverURL returns the first cover image URL, or an empty string.
func (p *Playlist) CoverURL() string {
	for _, img := range p.Images {
		if img.URL != "" {
			return img.URL
		}
	}
	return ""
}

// DurationMS sums the duration of every hydrated track.
func (p *Playlist) DurationMS() int64 {
	var total int64
	for _, item := range p.Tracks.Items {
		if item.Track != nil {
			total += item.Track.DurationMS
		}
	}
	return total
}

// PlaylistPage is one offset page of a user's playlists.
type PlaylistPage struct {
	Items  []Playlist `json:"items"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
	Next   *string    `json:"next"`
}

// Validate checks every playlist on the page.
func (p *PlaylistPage) Validate() error {
	for i := range p.Items {
		if err := p.Items[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TrackPage is one page of playlist items.
type TrackPage struct {
	Items  []Item  `json:"items"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Next   *string `json:"next"`
}

// HasNext reports whether the cursor points at another page.
func (p *TrackPage) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// Validate checks every item on the page.
func (p *TrackPage) Validate() error {
	for i := range p.Items {
		if err := p.Items[i].Validate(); err != nil {
			return fmt.Errorf("item %d at offset %d: %w", i, p.Offset, err)
		}
	}
	return nil
}
