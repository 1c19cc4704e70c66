package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/playlists/internal/shared"
)

// RunStatus is the lifecycle state of a [Run].
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run is one invocation of the export pipeline.
type Run struct {
	ID         string
	Sequence   int
	Username   string
	Status     RunStatus
	Exported   int
	Skipped    int
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Validate checks that the run can be persisted.
func (r *Run) Validate() error {
	if r.Username == "" {
		return fmt.Errorf("%w: run username is required", shared.ErrInvalidArgument)
	}
	switch r.Status {
	case RunRunning, RunCompleted, RunFailed:
	default:
		return fmt.Errorf("%w: unknown run status %q", shared.ErrInvalidArgument, r.Status)
	}
	return nil
}

// ExportRecord is one playlist written during a run.
type ExportRecord struct {
	ID          string    `json:"id,omitempty"`
	RunID       string    `json:"run_id"`
	PlaylistID  string    `json:"playlist_id"`
	Name        string    `json:"name"`
	OwnerID     string    `json:"owner_id"`
	TrackCount  int       `json:"track_count"`
	DurationMS  int64     `json:"duration_ms"`
	CachePath   string    `json:"cache_path"`
	SummaryPath string    `json:"summary_path"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

// NewExportRecord builds the history row for a written playlist.
func NewExportRecord(p *Playlist, cachePath, summaryPath string) *ExportRecord {
	return &ExportRecord{
		PlaylistID:  p.ID,
		Name:        p.Name,
		OwnerID:     p.Owner.ID,
		TrackCount:  len(p.Tracks.Items),
		DurationMS:  p.DurationMS(),
		CachePath:   cachePath,
		SummaryPath: summaryPath,
	}
}

// Validate checks that the record can be persisted.
func (e *ExportRecord) Validate() error {
	switch {
	case e.RunID == "":
		return fmt.Errorf("%w: export run id is required", shared.ErrInvalidArgument)
	case e.PlaylistID == "":
		return fmt.Errorf("%w: export playlist id is required", shared.ErrInvalidArgument)
	case e.CachePath == "" || e.SummaryPath == "":
		return fmt.Errorf("%w: export paths are required", shared.ErrInvalidArgument)
	}
	return nil
}
