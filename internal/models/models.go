package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for all persistent models in the migration tool.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Playlist represents a playlist listed from a catalog. Read-only to the core.
type Playlist struct {
	ID          string
	Name        string
	Description string
	TrackCount  int
	Public      bool
}

// Track represents a song fetched from the source catalog.
// Immutable once fetched; discarded after its playlist's migration completes.
type Track struct {
	SourceID   string
	Title      string
	Artist     string // May be a comma-joined list of contributing artists
	Album      string
	DurationMS int
	ISRC       string // International Standard Recording Code, unused by the matcher itself
}

// Label returns the "title - artist" display form used in progress events and
// unmatched-track reports.
func (t Track) Label() string {
	return fmt.Sprintf("%s - %s", t.Title, t.Artist)
}

// MatchCandidate represents a destination search result considered as a
// possible match for a source track. Produced fresh per search call, never persisted.
type MatchCandidate struct {
	DestinationID string
	Title         string
	Artist        string
	Album         string
	DurationMS    int
}

// MatchResult is the matching engine's decision for one source track.
//
// Candidate is nil when no acceptable match was found; Confidence is still
// populated in that case so callers can report how close the best rejected
// candidate came. Confidence lives in [0, 1.1]: the matcher's exact-match
// bonus can push the raw score above 1.0 and the value is not clamped.
type MatchResult struct {
	Candidate  *MatchCandidate
	Confidence float64
}

// PlaylistMigrationReport describes the outcome of migrating one playlist.
type PlaylistMigrationReport struct {
	SourcePlaylist        Playlist
	DestinationPlaylistID string // Empty when destination creation failed
	TotalTracks           int
	MatchedCount          int
	UnmatchedCount        int
	UnmatchedLabels       []string // "title - artist", in source track order
	FailureReason         string   // Empty on success; set when the playlist failed before track processing
	AddError              string   // Best-effort record of a batch add failure
}

// Failed reports whether the playlist never reached track processing.
func (r PlaylistMigrationReport) Failed() bool {
	return r.FailureReason != ""
}

// MigrationSummary aggregates one report per processed playlist plus overall
// totals. Built incrementally by the migration engine; never mutated by any
// other component.
type MigrationSummary struct {
	Reports         []PlaylistMigrationReport
	TotalPlaylists  int
	Succeeded       int
	Failed          int
	TotalTracks     int
	MatchedTracks   int
	UnmatchedTracks int
}

// Add folds a playlist report into the summary totals.
func (s *MigrationSummary) Add(report PlaylistMigrationReport) {
	s.Reports = append(s.Reports, report)
	s.TotalPlaylists++
	if report.Failed() {
		s.Failed++
	} else {
		s.Succeeded++
	}
	s.TotalTracks += report.TotalTracks
	s.MatchedTracks += report.MatchedCount
	s.UnmatchedTracks += report.UnmatchedCount
}

// MatchRate returns the matched fraction of all processed tracks as a
// percentage, 0 when nothing was processed.
func (s *MigrationSummary) MatchRate() float64 {
	if s.TotalTracks == 0 {
		return 0
	}
	return float64(s.MatchedTracks) / float64(s.TotalTracks) * 100
}
