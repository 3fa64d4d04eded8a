package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/fernwalter/tunex/internal/models"
	"github.com/fernwalter/tunex/internal/services"
	"github.com/fernwalter/tunex/internal/shared"
)

// mockSource implements services.Source with overridable behavior.
type mockSource struct {
	playlists []models.Playlist
	tracks    map[string][]models.Track
	tracksErr error
	listErr   error
}

func (m *mockSource) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (m *mockSource) CurrentUser(ctx context.Context) (string, error) {
	return "test user", nil
}

func (m *mockSource) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.playlists, nil
}

func (m *mockSource) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	if m.tracksErr != nil {
		return nil, m.tracksErr
	}
	return m.tracks[playlistID], nil
}

func (m *mockSource) Name() string { return "MockSource" }

// mockDest implements services.Destination, echoing each searched track back
// as an exact-match candidate unless overridden.
type mockDest struct {
	searchFn  func(title, artist string, limit int) ([]models.MatchCandidate, error)
	createErr error
	createID  string
	addErr    error

	createdTitles       []string
	createdDescriptions []string
	addedBatches        [][]string
}

func (m *mockDest) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (m *mockDest) SearchCandidates(ctx context.Context, title, artist string, limit int) ([]models.MatchCandidate, error) {
	if m.searchFn != nil {
		return m.searchFn(title, artist, limit)
	}
	return []models.MatchCandidate{
		{DestinationID: "dest-" + title, Title: title, Artist: artist},
	}, nil
}

func (m *mockDest) CreatePlaylist(ctx context.Context, title, description string, public bool) (string, error) {
	m.createdTitles = append(m.createdTitles, title)
	m.createdDescriptions = append(m.createdDescriptions, description)
	if m.createErr != nil {
		return "", m.createErr
	}
	if m.createID != "" {
		return m.createID, nil
	}
	return "PL_DEST", nil
}

func (m *mockDest) AddTracks(ctx context.Context, playlistID string, ids []string) error {
	batch := make([]string, len(ids))
	copy(batch, ids)
	m.addedBatches = append(m.addedBatches, batch)
	return m.addErr
}

func (m *mockDest) DeletePlaylist(ctx context.Context, playlistID string) error { return nil }

func (m *mockDest) Name() string { return "MockDest" }

// recorderSink captures every event in order.
type recorderSink struct {
	events []Event
}

func (r *recorderSink) Emit(event Event) {
	r.events = append(r.events, event)
}

func (r *recorderSink) types() []EventType {
	types := make([]EventType, len(r.events))
	for i, event := range r.events {
		types[i] = event.Type
	}
	return types
}

func newTestEngine(source services.Source, dest services.Destination) *MigrationEngine {
	logger := shared.NewLogger(io.Discard)
	return NewMigrationEngine(source, dest, logger, shared.MigrationConfig{})
}

func TestMigrationEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("Migrate", func(t *testing.T) {
		t.Run("migrates a playlist and counts matches", func(t *testing.T) {
			source := &mockSource{
				tracks: map[string][]models.Track{
					"pl1": {
						{Title: "Song A", Artist: "Artist A"},
						{Title: "Song B", Artist: "Artist B"},
						{Title: "Obscure Demo", Artist: "Nobody"},
					},
				},
			}
			dest := &mockDest{
				searchFn: func(title, artist string, limit int) ([]models.MatchCandidate, error) {
					if title == "Obscure Demo" {
						return []models.MatchCandidate{
							{DestinationID: "noise", Title: "qqqq", Artist: "zzzz"},
						}, nil
					}
					return []models.MatchCandidate{
						{DestinationID: "dest-" + title, Title: title, Artist: artist},
					}, nil
				},
			}

			engine := newTestEngine(source, dest)
			playlists := []models.Playlist{{ID: "pl1", Name: "Road Trip"}}

			summary, err := engine.Migrate(ctx, playlists, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if summary.TotalPlaylists != 1 || summary.Succeeded != 1 || summary.Failed != 0 {
				t.Errorf("unexpected playlist totals: %+v", summary)
			}
			if summary.MatchedTracks != 2 || summary.UnmatchedTracks != 1 {
				t.Errorf("expected 2 matched / 1 unmatched, got %d / %d", summary.MatchedTracks, summary.UnmatchedTracks)
			}

			report := summary.Reports[0]
			if report.DestinationPlaylistID != "PL_DEST" {
				t.Errorf("expected destination ID PL_DEST, got %s", report.DestinationPlaylistID)
			}
			if len(report.UnmatchedLabels) != 1 || report.UnmatchedLabels[0] != "Obscure Demo - Nobody" {
				t.Errorf("unexpected unmatched labels: %v", report.UnmatchedLabels)
			}

			if len(dest.addedBatches) != 1 {
				t.Fatalf("expected one add batch, got %d", len(dest.addedBatches))
			}
			if got := dest.addedBatches[0]; len(got) != 2 || got[0] != "dest-Song A" || got[1] != "dest-Song B" {
				t.Errorf("unexpected batch contents: %v", got)
			}
		})

		t.Run("prefixes titles and falls back on description", func(t *testing.T) {
			source := &mockSource{
				tracks: map[string][]models.Track{
					"pl1": {{Title: "Song", Artist: "Artist"}},
					"pl2": {{Title: "Song", Artist: "Artist"}},
				},
			}
			dest := &mockDest{}

			engine := newTestEngine(source, dest)
			playlists := []models.Playlist{
				{ID: "pl1", Name: "Chill", Description: "my mix"},
				{ID: "pl2", Name: "Focus"},
			}

			if _, err := engine.Migrate(ctx, playlists, nil); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if dest.createdTitles[0] != "spotify-Chill" || dest.createdTitles[1] != "spotify-Focus" {
				t.Errorf("unexpected created titles: %v", dest.createdTitles)
			}
			if dest.createdDescriptions[0] != "my mix" {
				t.Errorf("expected source description kept, got %s", dest.createdDescriptions[0])
			}
			if dest.createdDescriptions[1] != "Migrated from Spotify" {
				t.Errorf("expected fallback description, got %s", dest.createdDescriptions[1])
			}
		})

		t.Run("emits events in order for a playlist", func(t *testing.T) {
			source := &mockSource{
				tracks: map[string][]models.Track{
					"pl1": {
						{Title: "Song A", Artist: "Artist A"},
						{Title: "Song B", Artist: "Artist B"},
					},
				},
			}
			dest := &mockDest{}
			sink := &recorderSink{}

			engine := newTestEngine(source, dest)
			if _, err := engine.Migrate(ctx, []models.Playlist{{ID: "pl1", Name: "Mix"}}, sink); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			want := []EventType{
				EventStarted,
				EventPlaylistStarted,
				EventTracksLoaded,
				EventPlaylistCreated,
				EventTrackProgress, // searching A
				EventTrackProgress, // matched A
				EventTrackProgress, // searching B
				EventTrackProgress, // matched B
				EventPlaylistCompleted,
				EventCompleted,
			}

			got := sink.types()
			if len(got) != len(want) {
				t.Fatalf("expected %d events, got %d: %v", len(want), len(got), got)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("event %d: expected %s, got %s", i, want[i], got[i])
				}
			}

			searching := sink.events[4]
			if searching.Status != TrackStatusSearching || searching.Track != "Song A - Artist A" {
				t.Errorf("unexpected searching event: %+v", searching)
			}
			matched := sink.events[5]
			if matched.Status != TrackStatusMatched || matched.Confidence <= 1.0 {
				t.Errorf("expected exact match with bonus confidence, got %+v", matched)
			}
			done := sink.events[8]
			if done.Matched != 2 || done.Unmatched != 0 {
				t.Errorf("expected 2 matched / 0 unmatched on completion, got %+v", done)
			}
		})

		t.Run("continues after playlist creation failure", func(t *testing.T) {
			source := &mockSource{
				tracks: map[string][]models.Track{
					"pl1": {{Title: "Song", Artist: "Artist"}},
					"pl2": {{Title: "Song", Artist: "Artist"}},
				},
			}
			calls := 0
			failing := &mockDest{createErr: errors.New("quota exceeded")}
			failing.searchFn = func(title, artist string, limit int) ([]models.MatchCandidate, error) {
				calls++
				return []models.MatchCandidate{{DestinationID: "d", Title: title, Artist: artist}}, nil
			}

			engine := newTestEngine(source, failing)
			summary, err := engine.Migrate(ctx, []models.Playlist{
				{ID: "pl1", Name: "First"},
				{ID: "pl2", Name: "Second"},
			}, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if summary.Failed != 2 || summary.Succeeded != 0 {
				t.Errorf("expected both playlists failed, got %+v", summary)
			}
			for _, report := range summary.Reports {
				if !report.Failed() {
					t.Errorf("expected failed report for %s", report.SourcePlaylist.Name)
				}
				if report.DestinationPlaylistID != "" {
					t.Errorf("expected empty destination ID, got %s", report.DestinationPlaylistID)
				}
			}
			if calls != 0 {
				t.Errorf("expected no searches after creation failure, got %d", calls)
			}
		})

		t.Run("treats an empty creation ID as failure", func(t *testing.T) {
			source := &mockSource{
				tracks: map[string][]models.Track{"pl1": {{Title: "Song", Artist: "Artist"}}},
			}
			dest := &mockDest{}

			engine := newTestEngine(source, destReturningEmptyID{dest})

			summary, err := engine.Migrate(ctx, []models.Playlist{{ID: "pl1", Name: "Mix"}}, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if summary.Failed != 1 {
				t.Errorf("expected failed playlist, got %+v", summary)
			}
			if !strings.Contains(summary.Reports[0].FailureReason, "empty playlist ID") {
				t.Errorf("unexpected failure reason: %s", summary.Reports[0].FailureReason)
			}
		})

		t.Run("fails playlist when tracks cannot be loaded", func(t *testing.T) {
			source := &mockSource{tracksErr: errors.New("rate limited")}
			dest := &mockDest{}
			sink := &recorderSink{}

			engine := newTestEngine(source, dest)
			summary, err := engine.Migrate(ctx, []models.Playlist{{ID: "pl1", Name: "Mix"}}, sink)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if summary.Failed != 1 {
				t.Errorf("expected failed playlist, got %+v", summary)
			}
			if len(dest.createdTitles) != 0 {
				t.Error("expected no playlist creation after load failure")
			}

			var sawError bool
			for _, event := range sink.events {
				if event.Type == EventError {
					sawError = true
				}
			}
			if !sawError {
				t.Error("expected an error event")
			}
		})

		t.Run("fails playlist with no tracks", func(t *testing.T) {
			source := &mockSource{tracks: map[string][]models.Track{"pl1": {}}}
			dest := &mockDest{}

			engine := newTestEngine(source, dest)
			summary, err := engine.Migrate(ctx, []models.Playlist{{ID: "pl1", Name: "Empty"}}, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if summary.Failed != 1 {
				t.Errorf("expected failed playlist, got %+v", summary)
			}
			if len(dest.createdTitles) != 0 {
				t.Error("expected no playlist created for an empty playlist")
			}
		})

		t.Run("search failure marks track unmatched", func(t *testing.T) {
			source := &mockSource{
				tracks: map[string][]models.Track{
					"pl1": {
						{Title: "Good", Artist: "Artist"},
						{Title: "Flaky", Artist: "Artist"},
					},
				},
			}
			dest := &mockDest{
				searchFn: func(title, artist string, limit int) ([]models.MatchCandidate, error) {
					if title == "Flaky" {
						return nil, fmt.Errorf("%w: timeout", shared.ErrSearch)
					}
					return []models.MatchCandidate{{DestinationID: "d1", Title: title, Artist: artist}}, nil
				},
			}

			engine := newTestEngine(source, dest)
			sink := &recorderSink{}
			summary, err := engine.Migrate(ctx, []models.Playlist{{ID: "pl1", Name: "Mix"}}, sink)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			report := summary.Reports[0]
			if report.Failed() {
				t.Errorf("expected playlist to succeed despite search error: %s", report.FailureReason)
			}
			if report.MatchedCount != 1 || report.UnmatchedCount != 1 {
				t.Errorf("expected 1 matched / 1 unmatched, got %d / %d", report.MatchedCount, report.UnmatchedCount)
			}
			if report.UnmatchedLabels[0] != "Flaky - Artist" {
				t.Errorf("unexpected unmatched label: %v", report.UnmatchedLabels)
			}

			var errEvent *Event
			for i, event := range sink.events {
				if event.Type == EventError {
					errEvent = &sink.events[i]
				}
			}
			if errEvent == nil {
				t.Fatal("expected an error event for the failed search")
			}
			if errEvent.PlaylistName != "Mix" || !strings.Contains(errEvent.Message, "Flaky - Artist") {
				t.Errorf("unexpected error event: %+v", errEvent)
			}
		})

		t.Run("discards matches without a destination ID", func(t *testing.T) {
			source := &mockSource{
				tracks: map[string][]models.Track{
					"pl1": {{Title: "Song", Artist: "Artist"}},
				},
			}
			dest := &mockDest{
				searchFn: func(title, artist string, limit int) ([]models.MatchCandidate, error) {
					return []models.MatchCandidate{{DestinationID: "", Title: title, Artist: artist}}, nil
				},
			}

			engine := newTestEngine(source, dest)
			summary, err := engine.Migrate(ctx, []models.Playlist{{ID: "pl1", Name: "Mix"}}, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			report := summary.Reports[0]
			if report.MatchedCount != 0 || report.UnmatchedCount != 1 {
				t.Errorf("expected 0 matched / 1 unmatched, got %d / %d", report.MatchedCount, report.UnmatchedCount)
			}
			if len(dest.addedBatches) != 0 {
				t.Errorf("expected no add batches, got %v", dest.addedBatches)
			}
		})

		t.Run("splits adds into batches", func(t *testing.T) {
			tracks := make([]models.Track, 120)
			for i := range tracks {
				tracks[i] = models.Track{Title: fmt.Sprintf("Song %03d", i), Artist: "Artist"}
			}
			source := &mockSource{tracks: map[string][]models.Track{"pl1": tracks}}
			dest := &mockDest{}

			engine := newTestEngine(source, dest)
			if _, err := engine.Migrate(ctx, []models.Playlist{{ID: "pl1", Name: "Big"}}, nil); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(dest.addedBatches) != 3 {
				t.Fatalf("expected 3 batches, got %d", len(dest.addedBatches))
			}
			sizes := []int{len(dest.addedBatches[0]), len(dest.addedBatches[1]), len(dest.addedBatches[2])}
			if sizes[0] != 50 || sizes[1] != 50 || sizes[2] != 20 {
				t.Errorf("expected batch sizes 50/50/20, got %v", sizes)
			}
			if dest.addedBatches[0][0] != "dest-Song 000" {
				t.Errorf("expected source order preserved, got %s", dest.addedBatches[0][0])
			}
		})

		t.Run("records batch add failure without failing the playlist", func(t *testing.T) {
			source := &mockSource{
				tracks: map[string][]models.Track{"pl1": {{Title: "Song", Artist: "Artist"}}},
			}
			dest := &mockDest{addErr: errors.New("video unavailable")}

			engine := newTestEngine(source, dest)
			summary, err := engine.Migrate(ctx, []models.Playlist{{ID: "pl1", Name: "Mix"}}, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			report := summary.Reports[0]
			if report.Failed() {
				t.Error("expected playlist to count as succeeded")
			}
			if report.AddError == "" {
				t.Error("expected add error to be recorded")
			}
		})
	})

	t.Run("Run", func(t *testing.T) {
		t.Run("fetches playlists from the source", func(t *testing.T) {
			source := &mockSource{
				playlists: []models.Playlist{{ID: "pl1", Name: "Mix"}},
				tracks:    map[string][]models.Track{"pl1": {{Title: "Song", Artist: "Artist"}}},
			}
			dest := &mockDest{}

			engine := newTestEngine(source, dest)
			summary, err := engine.Run(ctx, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if summary.TotalPlaylists != 1 {
				t.Errorf("expected 1 playlist, got %d", summary.TotalPlaylists)
			}
		})

		t.Run("catalog fetch failure is fatal", func(t *testing.T) {
			source := &mockSource{listErr: errors.New("token expired")}
			dest := &mockDest{}

			engine := newTestEngine(source, dest)
			_, err := engine.Run(ctx, nil)
			if !errors.Is(err, shared.ErrCatalogFetch) {
				t.Fatalf("expected ErrCatalogFetch, got %v", err)
			}
		})
	})

	t.Run("uninitialized services", func(t *testing.T) {
		engine := newTestEngine(&mockSource{}, &mockDest{})
		engine.dest = nil
		_, err := engine.Migrate(ctx, nil, nil)
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Fatalf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

// destReturningEmptyID wraps a mockDest and reports success with an empty ID
// on playlist creation.
type destReturningEmptyID struct {
	*mockDest
}

func (d destReturningEmptyID) CreatePlaylist(ctx context.Context, title, description string, public bool) (string, error) {
	return "", nil
}
