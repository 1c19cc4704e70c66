package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playlists/internal/formatter"
	"github.com/desertthunder/playlists/internal/models"
	"github.com/desertthunder/playlists/internal/services"
	"github.com/desertthunder/playlists/internal/shared"
)

const (
	DefaultCacheDir  = "cache"
	DefaultOutputDir = "playlists"
)

// Recorder persists run history.
//
// History is auxiliary: the exporter logs recorder failures and keeps going.
type Recorder interface {
	StartRun(ctx context.Context, username string) (string, error)
	RecordExport(ctx context.Context, rec *models.ExportRecord) error
	FinishRun(ctx context.Context, runID string, exported, skipped int, runErr error) error
}

// ExporterOpts contains configuration for an [Exporter].
type ExporterOpts struct {
	PageSize  int         // Playlists per listing page (default: 50)
	MaxPages  int         // Pagination guard (default: 1000)
	CacheDir  string      // JSON cache directory (default: cache)
	OutputDir string      // Markdown summary directory (default: playlists)
	Notifier  Notifier    // Optional progress receiver
	Recorder  Recorder    // Optional run history
	Logger    *log.Logger // Defaults to shared.NewLogger
}

// ExportResult summarizes a run.
type ExportResult struct {
	RunID    string                 `json:"run_id"`
	Username string                 `json:"username"`
	Exported []*models.ExportRecord `json:"exported"`
	Skipped  int                    `json:"skipped"`
}

// Exporter drains a [Fetcher] and writes the cache and summary files for every playlist it yields.
type Exporter struct {
	srv  services.Service
	opts ExporterOpts
}

// NewExporter creates an Exporter backed by srv.
func NewExporter(srv services.Service, opts ExporterOpts) *Exporter {
	if opts.CacheDir == "" {
		opts.CacheDir = DefaultCacheDir
	}
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultOutputDir
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Exporter{srv: srv, opts: opts}
}

// Run exports every playlist owned by username.
//
// Playlists are written one at a time in server order and the first error aborts the run.
// Files already written by an aborted run stay on disk.
// When two playlists in the same run map to the same summary file, the later one is written as "{name} ({id}).md".
func (e *Exporter) Run(ctx context.Context, username string) (*ExportResult, error) {
	result := &ExportResult{Username: username}
	result.RunID = e.startRun(ctx, username)

	fetcher := NewFetcher(e.srv, FetcherOpts{
		PageSize: e.opts.PageSize,
		MaxPages: e.opts.MaxPages,
		Notifier: NotifierFunc(func(update ProgressUpdate) {
			if update.Phase == SkipPlaylist {
				result.Skipped++
			}
			e.notify(update)
		}),
	})

	used := make(map[string]string)
	var runErr error

	for pl, err := range fetcher.Playlists(ctx, username) {
		if err != nil {
			runErr = err
			break
		}

		rec, err := e.export(pl, used)
		if err != nil {
			runErr = err
			break
		}

		rec.RunID = result.RunID
		e.recordExport(ctx, rec)
		result.Exported = append(result.Exported, rec)
		e.notify(exportCompletedUpdate(len(result.Exported), rec))
	}

	e.finishRun(ctx, result, runErr)

	if runErr != nil {
		return result, runErr
	}
	return result, nil
}

// export writes one playlist's cache and summary files.
//
// used maps lowercased summary file names already written in this run to the playlist id that claimed them.
func (e *Exporter) export(pl *models.Playlist, used map[string]string) (*models.ExportRecord, error) {
	cachePath, err := formatter.WriteCache(pl, e.opts.CacheDir)
	if err != nil {
		return nil, err
	}

	filename := formatter.SummaryFilename(pl.Name)
	if owner, ok := used[strings.ToLower(filename)]; ok && owner != pl.ID {
		filename = formatter.SummaryFilename(fmt.Sprintf("%s (%s)", pl.Name, pl.ID))
		e.opts.Logger.Warn("duplicate playlist name", "name", pl.Name, "id", pl.ID, "file", filename)
	}
	used[strings.ToLower(filename)] = pl.ID

	summaryPath, err := formatter.WriteSummary(pl, e.opts.OutputDir, filename)
	if err != nil {
		return nil, err
	}

	e.opts.Logger.Debug("exported playlist", "id", pl.ID, "tracks", len(pl.Tracks.Items), "summary", summaryPath)
	return models.NewExportRecord(pl, cachePath, summaryPath), nil
}

func (e *Exporter) startRun(ctx context.Context, username string) string {
	if e.opts.Recorder == nil {
		return shared.GenerateID()
	}

	id, err := e.opts.Recorder.StartRun(ctx, username)
	if err != nil {
		e.opts.Logger.Warn("run history unavailable", "error", err)
		e.opts.Recorder = nil
		return shared.GenerateID()
	}
	return id
}

func (e *Exporter) recordExport(ctx context.Context, rec *models.ExportRecord) {
	if e.opts.Recorder == nil {
		return
	}
	if err := e.opts.Recorder.RecordExport(ctx, rec); err != nil {
		e.opts.Logger.Warn("failed to record export", "playlist", rec.PlaylistID, "error", err)
	}
}

func (e *Exporter) finishRun(ctx context.Context, result *ExportResult, runErr error) {
	if e.opts.Recorder == nil {
		return
	}
	err := e.opts.Recorder.FinishRun(context.WithoutCancel(ctx), result.RunID, len(result.Exported), result.Skipped, runErr)
	if err != nil {
		e.opts.Logger.Warn("failed to finish run", "run", result.RunID, "error", err)
	}
}

func (e *Exporter) notify(update ProgressUpdate) {
	if e.opts.Notifier != nil {
		e.opts.Notifier.Notify(update)
	}
}
