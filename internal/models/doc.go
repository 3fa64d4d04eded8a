// Package models defines domain entities for the playlist migration tool.
//
// The package contains two categories of types:
//
// 1. Catalog value types: Lightweight structs carried between adapters and the matching engine
//   - [Playlist] : Playlist metadata from the source catalog
//   - [Track] : Song metadata with optional ISRC
//   - [MatchCandidate] : A destination search result considered as a match
//   - [MatchResult] : The matching engine's decision for one track
//
// 2. Report types: Built incrementally by the migration engine
//   - [PlaylistMigrationReport] : Per-playlist outcome with unmatched track labels
//   - [MigrationSummary] : Job-wide aggregation, finalized when the job ends
//
// 3. Persistent entities: Database-backed models with full lifecycle management
//   - [MigrationRecord] : A persisted per-playlist migration outcome
//
// Persistent entities implement the [Model] interface providing ID generation, timestamps, validation, and soft delete support.
// The [Repository] interface defines standard CRUD operations for database access.
package models
