// Package models defines the typed records exchanged with the Spotify Web API and the run history entities.
//
// The package contains two categories of types:
//
// 1. API records: structs whose JSON tags mirror the Spotify field names, validated at the API boundary
//   - [Playlist] : Playlist metadata plus its hydrated track listing
//   - [Item] : Playlist entry wrapping exactly one [Track]
//   - [Track] : Song name, artists and duration in milliseconds
//   - [PlaylistPage], [TrackPage] : Offset pages carrying the `next` cursor
//
// 2. History entities: rows written to the run history database
//   - [Run] : One invocation of the export pipeline
//   - [ExportRecord] : One playlist written during a run
//
// Validation failures wrap [shared.ErrParse] and name the offending field.
package models
