package tasks

import (
	"fmt"

	"github.com/desertthunder/playlists/internal/models"
)

// ProgressUpdate represents a progress event during an export run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase, 0 when unknown
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchPlaylists Phase = iota
	FoundPlaylist
	SkipPlaylist
	FetchTracks
	ExportPlaylist
)

func (p Phase) String() string {
	switch p {
	case FetchPlaylists:
		return "fetch_playlists"
	case FoundPlaylist:
		return "found_playlist"
	case SkipPlaylist:
		return "skip_playlist"
	case FetchTracks:
		return "fetch_tracks"
	case ExportPlaylist:
		return "export_playlist"
	default:
		return ""
	}
}

// Notifier receives progress updates synchronously, in the order they happen.
type Notifier interface {
	Notify(update ProgressUpdate)
}

// NotifierFunc adapts a plain function to [Notifier].
type NotifierFunc func(update ProgressUpdate)

func (f NotifierFunc) Notify(update ProgressUpdate) { f(update) }

func fetchPlaylistsUpdate(page, offset int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylists,
		Step:    page,
		Message: fmt.Sprintf("Fetching playlists (offset %d)...", offset),
	}
}

// foundPlaylistUpdate carries the listed track count as Total.
func foundPlaylistUpdate(step int, pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FoundPlaylist,
		Step:    step,
		Total:   pl.Tracks.Total,
		Message: fmt.Sprintf("Found playlist: %s | %d tracks", pl.Name, pl.Tracks.Total),
		Data:    pl,
	}
}

func skippedPlaylistUpdate(step int, pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SkipPlaylist,
		Step:    step,
		Message: fmt.Sprintf("Skipped playlist: %s (different owner: %s)", pl.Name, pl.Owner.ID),
		Data:    pl,
	}
}

func fetchTracksUpdate(page, total int, pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    page,
		Total:   total,
		Message: fmt.Sprintf("Fetching tracks for %s (page %d)...", pl.Name, page),
	}
}

func exportCompletedUpdate(step int, rec *models.ExportRecord) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   rec.TrackCount,
		Message: fmt.Sprintf("Exported %s → %s", rec.Name, rec.SummaryPath),
		Data:    rec,
	}
}
