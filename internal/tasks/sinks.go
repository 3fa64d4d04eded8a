package tasks

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ProgressSink receives migration events as the engine produces them.
//
// Emit is called synchronously from the engine goroutine, in order. Sinks
// that fan out to slow consumers should buffer internally rather than block.
type ProgressSink interface {
	Emit(event Event)
}

// SinkFunc adapts a function to the ProgressSink interface.
type SinkFunc func(Event)

func (f SinkFunc) Emit(event Event) {
	f(event)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Emit(Event) {}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	matchedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	unmatchedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle       = lipgloss.NewStyle().Faint(true)
)

// ConsoleSink renders events as styled terminal output.
type ConsoleSink struct {
	out io.Writer
}

// NewConsoleSink creates a console sink writing to out.
func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{out: out}
}

func (c *ConsoleSink) Emit(event Event) {
	switch event.Type {
	case EventStarted:
		fmt.Fprintln(c.out, headerStyle.Render(fmt.Sprintf("Migrating %d playlist(s)", event.TotalPlaylists)))
	case EventPlaylistStarted:
		fmt.Fprintln(c.out, headerStyle.Render(fmt.Sprintf("[%d/%d] %s", event.PlaylistIndex, event.TotalPlaylists, event.PlaylistName)))
	case EventTracksLoaded:
		fmt.Fprintln(c.out, dimStyle.Render(fmt.Sprintf("  %d track(s) loaded", event.TrackCount)))
	case EventPlaylistCreated:
		fmt.Fprintln(c.out, dimStyle.Render(fmt.Sprintf("  Created %s (ID: %s)", event.Title, event.DestinationID)))
	case EventTrackProgress:
		switch event.Status {
		case TrackStatusMatched:
			fmt.Fprintln(c.out, matchedStyle.Render(fmt.Sprintf("  [%d/%d] ✓ %s (%.2f)", event.Current, event.Total, event.Track, event.Confidence)))
		case TrackStatusUnmatched:
			fmt.Fprintln(c.out, unmatchedStyle.Render(fmt.Sprintf("  [%d/%d] ✗ %s", event.Current, event.Total, event.Track)))
		}
	case EventPlaylistCompleted:
		fmt.Fprintln(c.out, headerStyle.Render(fmt.Sprintf("  Done: %d matched, %d unmatched", event.Matched, event.Unmatched)))
	case EventCompleted:
		if s := event.Summary; s != nil {
			fmt.Fprintln(c.out, headerStyle.Render(fmt.Sprintf(
				"Complete: %d playlist(s), %d/%d tracks matched (%.1f%%)",
				s.TotalPlaylists, s.MatchedTracks, s.TotalTracks, s.MatchRate())))
		}
	case EventError:
		fmt.Fprintln(c.out, errorStyle.Render(fmt.Sprintf("  Error (%s): %s", event.PlaylistName, event.Message)))
	}
}

// StreamSink writes events as Server-Sent Events for HTTP streaming clients.
//
// Each event becomes one "data: {json}\n\n" frame, flushed immediately when
// the writer supports it. Safe for use from the engine while the HTTP handler
// owns the connection.
type StreamSink struct {
	mu  sync.Mutex
	out io.Writer
}

// NewStreamSink creates an SSE sink writing to out.
func NewStreamSink(out io.Writer) *StreamSink {
	return &StreamSink{out: out}
}

func (s *StreamSink) Emit(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintf(s.out, "data: %s\n\n", data)
	if flusher, ok := s.out.(http.Flusher); ok {
		flusher.Flush()
	}
}
