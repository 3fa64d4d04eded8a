package tasks

import (
	"github.com/fernwalter/tunex/internal/models"
)

// EventType identifies a migration progress event. The string values double
// as the wire-level event type for JSON stream consumers.
type EventType string

const (
	EventStarted           EventType = "start"
	EventPlaylistStarted   EventType = "playlist_start"
	EventTracksLoaded      EventType = "tracks_loaded"
	EventPlaylistCreated   EventType = "playlist_created"
	EventTrackProgress     EventType = "track_progress"
	EventPlaylistCompleted EventType = "playlist_complete"
	EventCompleted         EventType = "complete"
	EventError             EventType = "error"
)

// Track statuses carried by track_progress events.
const (
	TrackStatusSearching = "searching"
	TrackStatusMatched   = "matched"
	TrackStatusUnmatched = "unmatched"
)

// Event represents a single progress event during a migration run.
//
// Fields are populated per type; unused fields are zero and omitted from the
// JSON encoding so each event stays compact on the wire.
type Event struct {
	Type           EventType `json:"type"`
	TotalPlaylists int       `json:"total_playlists,omitempty"`
	PlaylistIndex  int       `json:"playlist_index,omitempty"`
	PlaylistName   string    `json:"playlist_name,omitempty"`
	TrackCount     int       `json:"count,omitempty"`
	DestinationID  string    `json:"destination_id,omitempty"`
	Title          string    `json:"title,omitempty"`
	Current        int       `json:"current,omitempty"`
	Total          int       `json:"total,omitempty"`
	Track          string    `json:"track_name,omitempty"`
	Status         string    `json:"status,omitempty"`
	Confidence     float64   `json:"confidence,omitempty"`
	Matched        int       `json:"matched,omitempty"`
	Unmatched      int       `json:"unmatched,omitempty"`
	Message        string    `json:"message,omitempty"`

	// Summary is attached to the final complete event only.
	Summary *models.MigrationSummary `json:"summary,omitempty"`
}

func startedEvent(totalPlaylists int) Event {
	return Event{
		Type:           EventStarted,
		TotalPlaylists: totalPlaylists,
	}
}

func playlistStartedEvent(index, total int, name string) Event {
	return Event{
		Type:           EventPlaylistStarted,
		PlaylistIndex:  index,
		TotalPlaylists: total,
		PlaylistName:   name,
	}
}

func tracksLoadedEvent(name string, count int) Event {
	return Event{
		Type:         EventTracksLoaded,
		PlaylistName: name,
		TrackCount:   count,
	}
}

func playlistCreatedEvent(destinationID, title string) Event {
	return Event{
		Type:          EventPlaylistCreated,
		DestinationID: destinationID,
		Title:         title,
	}
}

func trackProgressEvent(current, total int, label, status string, confidence float64) Event {
	return Event{
		Type:       EventTrackProgress,
		Current:    current,
		Total:      total,
		Track:      label,
		Status:     status,
		Confidence: confidence,
	}
}

func playlistCompletedEvent(name string, matched, unmatched int) Event {
	return Event{
		Type:         EventPlaylistCompleted,
		PlaylistName: name,
		Matched:      matched,
		Unmatched:    unmatched,
	}
}

func completedEvent(summary *models.MigrationSummary) Event {
	return Event{
		Type:    EventCompleted,
		Summary: summary,
	}
}

func errorEvent(playlistName, message string) Event {
	return Event{
		Type:         EventError,
		PlaylistName: playlistName,
		Message:      message,
	}
}
