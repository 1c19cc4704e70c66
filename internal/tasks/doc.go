// Package tasks runs the playlist export pipeline with progress reporting.
//
// # Fetching
//
// [Fetcher.Playlists] is a lazy sequence over a user's playlists:
//
//  1. Lists playlists 50 at a time ([DefaultPageSize]) until an empty page is returned
//  2. Skips playlists whose owner id differs from the username (exact, case-sensitive)
//  3. Hydrates each owned playlist by following track page cursors until exhausted
//  4. Yields one fully hydrated playlist at a time, in server order
//
// Both loops are bounded by [FetcherOpts.MaxPages]; a server that never stops paginating
// ends the sequence with [shared.ErrPaginationExceeded].
//
// # Exporting
//
// [Exporter.Run] drains the fetcher and, per playlist, writes {cache}/{id}.json and
// {playlists}/{name}.md through the formatter package. The first error stops the run.
//
// # Progress Reporting
//
// Found, skipped and exported playlists are reported as [ProgressUpdate] values to an optional [Notifier].
// Updates are delivered synchronously on the calling goroutine so none are dropped.
//
// # Run History
//
// The optional [Recorder] interface (repositories.History) stores one row per run and per written playlist.
// Recorder errors are logged and never fail the export.
package tasks
