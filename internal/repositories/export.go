package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/playlists/internal/models"
	"github.com/desertthunder/playlists/internal/shared"
)

// ExportRepository persists one [models.ExportRecord] per playlist written by a run.
type ExportRepository struct {
	db *sql.DB
}

// NewExportRepository creates a new ExportRepository with the given database connection
func NewExportRepository(db *sql.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

// Create inserts an export record with a generated ID.
func (r *ExportRepository) Create(ctx context.Context, rec *models.ExportRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO exports (id, run_id, playlist_id, name, owner_id, track_count, duration_ms, cache_path, summary_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		id,
		rec.RunID,
		rec.PlaylistID,
		rec.Name,
		rec.OwnerID,
		rec.TrackCount,
		rec.DurationMS,
		rec.CachePath,
		rec.SummaryPath,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert export: %w", err)
	}

	rec.ID = id
	return nil
}

// ListByRun retrieves the exports of a run in insertion order.
func (r *ExportRepository) ListByRun(ctx context.Context, runID string) ([]*models.ExportRecord, error) {
	query := `
		SELECT id, run_id, playlist_id, name, owner_id, track_count, duration_ms, cache_path, summary_path, created_at
		FROM exports
		WHERE run_id = ?
		ORDER BY rowid ASC
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer rows.Close()

	var records []*models.ExportRecord
	for rows.Next() {
		var rec models.ExportRecord
		err := rows.Scan(
			&rec.ID,
			&rec.RunID,
			&rec.PlaylistID,
			&rec.Name,
			&rec.OwnerID,
			&rec.TrackCount,
			&rec.DurationMS,
			&rec.CachePath,
			&rec.SummaryPath,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}
