// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for playlist migration:
//  1. [PlaylistListView] : Browse source playlists, toggling which to migrate
//  2. [ConfirmView] : Confirm the migration
//  3. [MigrateView] : Monitor real-time progress events
//  4. [ResultView] : Display the migration summary and unmatched tracks
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Progress events flow through a channel bridged from the MigrationEngine's
// sink, providing non-blocking status reporting during migrations.
//
// Keyboard navigation uses vim-style bindings (j/k, space, enter, esc, y/n, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
