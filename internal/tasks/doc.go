// Package tasks implements the playlist migration pipeline between music
// services.
//
// The core abstraction is MigrationEngine, which walks a set of source
// playlists sequentially: load tracks, create the destination playlist, match
// each track against destination search results, and add the matched videos
// in batches. Failures below the playlist boundary are absorbed into that
// playlist's report so one broken playlist never aborts the job.
//
// Operations emit [Event] values through a [ProgressSink] for real-time
// status reporting to the CLI, TUI, and HTTP layers. Sinks are synchronous;
// the engine emits events in a fixed order per playlist so consumers can
// render a faithful timeline without buffering.
package tasks
