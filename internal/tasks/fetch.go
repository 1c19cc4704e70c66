package tasks

import (
	"context"
	"fmt"
	"iter"

	"github.com/desertthunder/playlists/internal/models"
	"github.com/desertthunder/playlists/internal/services"
	"github.com/desertthunder/playlists/internal/shared"
)

const (
	DefaultPageSize = 50
	DefaultMaxPages = 1000
)

// FetcherOpts contains configuration for a [Fetcher].
type FetcherOpts struct {
	PageSize int      // Playlists requested per listing page (default: 50)
	MaxPages int      // Upper bound on pages per listing and per playlist (default: 1000)
	Notifier Notifier // Optional receiver for found/skipped notices
}

// Fetcher lists a user's playlists and hydrates each one with every track across all pages.
type Fetcher struct {
	srv      services.Service
	pageSize int
	maxPages int
	notifier Notifier
}

// NewFetcher creates a Fetcher backed by srv.
func NewFetcher(srv services.Service, opts FetcherOpts) *Fetcher {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	return &Fetcher{
		srv:      srv,
		pageSize: opts.PageSize,
		maxPages: opts.MaxPages,
		notifier: opts.Notifier,
	}
}

// Playlists lazily yields the hydrated playlists owned by username, in server order.
//
// Listing pages are requested at offsets 0, PageSize, 2*PageSize, ... until an empty page comes back.
// Playlists owned by someone else are reported to the Notifier and never yielded.
// A playlist is fully hydrated before the next one is requested.
// The first error is yielded with a nil playlist and ends the sequence.
func (f *Fetcher) Playlists(ctx context.Context, username string) iter.Seq2[*models.Playlist, error] {
	return func(yield func(*models.Playlist, error) bool) {
		seen := 0
		for page := 0; ; page++ {
			if page >= f.maxPages {
				yield(nil, fmt.Errorf("%w: playlists for %s exceeded %d pages", shared.ErrPaginationExceeded, username, f.maxPages))
				return
			}

			offset := page * f.pageSize
			f.notify(fetchPlaylistsUpdate(page+1, offset))

			listing, err := f.srv.UserPlaylists(ctx, username, f.pageSize, offset)
			if err != nil {
				yield(nil, fmt.Errorf("failed to list playlists for %s: %w", username, err))
				return
			}

			if len(listing.Items) == 0 {
				return
			}

			for i := range listing.Items {
				pl := &listing.Items[i]
				seen++

				if pl.Owner.ID != username {
					f.notify(skippedPlaylistUpdate(seen, pl))
					continue
				}

				f.notify(foundPlaylistUpdate(seen, pl))

				if err := f.Hydrate(ctx, pl); err != nil {
					yield(nil, err)
					return
				}

				if !yield(pl, nil) {
					return
				}
			}
		}
	}
}

// Hydrate replaces the playlist's items with every track page, following next cursors until exhausted.
func (f *Fetcher) Hydrate(ctx context.Context, pl *models.Playlist) error {
	page, err := f.srv.PlaylistTracks(ctx, pl.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch tracks for playlist %s: %w", pl.ID, err)
	}

	if page.Total > 0 {
		pl.Tracks.Total = page.Total
	}

	items := make([]models.Item, 0, len(page.Items))
	items = append(items, page.Items...)

	for pages := 1; page.HasNext(); pages++ {
		if pages >= f.maxPages {
			return fmt.Errorf("%w: playlist %s exceeded %d track pages", shared.ErrPaginationExceeded, pl.ID, f.maxPages)
		}

		f.notify(fetchTracksUpdate(pages+1, pl.Tracks.Total, pl))

		page, err = f.srv.NextTracks(ctx, *page.Next)
		if err != nil {
			return fmt.Errorf("failed to fetch tracks for playlist %s: %w", pl.ID, err)
		}
		items = append(items, page.Items...)
	}

	pl.Tracks.Items = items
	return nil
}

func (f *Fetcher) notify(update ProgressUpdate) {
	if f.notifier != nil {
		f.notifier.Notify(update)
	}
}
