// Package repositories implements SQLite persistence for export run history.
//
// Key Implementations:
//   - [RunRepository] : one row per invocation with status and exported/skipped counts
//   - [ExportRepository] : one row per playlist written during a run
//   - [History] : the pair of repositories behind the export pipeline's recorder
//
// Sequence numbers provide stable, human-readable ordering (e.g., run #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
