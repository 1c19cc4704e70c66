package repositories

import (
	"context"
	"database/sql"

	"github.com/desertthunder/playlists/internal/models"
)

// History records export runs; it satisfies tasks.Recorder.
type History struct {
	Runs    *RunRepository
	Exports *ExportRepository
}

// NewHistory creates a History over a migrated database.
func NewHistory(db *sql.DB) *History {
	return &History{
		Runs:    NewRunRepository(db),
		Exports: NewExportRepository(db),
	}
}

// StartRun inserts a running run for username and returns its ID.
func (h *History) StartRun(ctx context.Context, username string) (string, error) {
	run := &models.Run{Username: username}
	if err := h.Runs.Create(ctx, run); err != nil {
		return "", err
	}
	return run.ID, nil
}

func (h *History) RecordExport(ctx context.Context, rec *models.ExportRecord) error {
	return h.Exports.Create(ctx, rec)
}

// FinishRun marks the run completed, or failed when runErr is set.
func (h *History) FinishRun(ctx context.Context, runID string, exported, skipped int, runErr error) error {
	status := models.RunCompleted
	if runErr != nil {
		status = models.RunFailed
	}
	return h.Runs.Finish(ctx, runID, status, exported, skipped)
}
