package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/fernwalter/tunex/internal/match"
	"github.com/fernwalter/tunex/internal/models"
	"github.com/fernwalter/tunex/internal/services"
	"github.com/fernwalter/tunex/internal/shared"
)

const (
	defaultTitlePrefix = "spotify-"
	defaultSearchLimit = 5
	defaultBatchSize   = 50

	fallbackDescription = "Migrated from Spotify"
)

// MigrationEngine orchestrates playlist migrations from a source catalog to a
// destination catalog.
//
// Playlists are processed sequentially. Any error below the playlist boundary
// is absorbed: a track that fails to search becomes an unmatched entry, a
// playlist that fails to load or create becomes a failed report, and the run
// moves on to the next playlist. Only pre-run failures surface as errors.
type MigrationEngine struct {
	source services.Source
	dest   services.Destination
	logger *log.Logger

	titlePrefix string
	searchLimit int
	batchSize   int
}

// NewMigrationEngine creates an engine with the given adapters and tunables.
// Zero-valued tunables fall back to defaults.
func NewMigrationEngine(source services.Source, dest services.Destination, logger *log.Logger, cfg shared.MigrationConfig) *MigrationEngine {
	engine := &MigrationEngine{
		source:      source,
		dest:        dest,
		logger:      logger,
		titlePrefix: cfg.TitlePrefix,
		searchLimit: cfg.SearchLimit,
		batchSize:   cfg.BatchSize,
	}

	if engine.titlePrefix == "" {
		engine.titlePrefix = defaultTitlePrefix
	}
	if engine.searchLimit <= 0 {
		engine.searchLimit = defaultSearchLimit
	}
	if engine.batchSize <= 0 {
		engine.batchSize = defaultBatchSize
	}
	if engine.logger == nil {
		engine.logger = log.Default()
	}

	return engine
}

// emit sends an event to the sink, tolerating a nil sink.
func (e *MigrationEngine) emit(sink ProgressSink, event Event) {
	if sink == nil {
		return
	}
	sink.Emit(event)
}

// Run migrates every playlist in the source account.
//
// Fetching the playlist catalog happens before any per-playlist work, so a
// failure here is fatal to the whole job.
func (e *MigrationEngine) Run(ctx context.Context, sink ProgressSink) (*models.MigrationSummary, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: source service not initialized", shared.ErrServiceUnavailable)
	}

	playlists, err := e.source.GetPlaylists(ctx)
	if err != nil {
		e.emit(sink, errorEvent("", err.Error()))
		return nil, fmt.Errorf("%w: failed to list source playlists: %w", shared.ErrCatalogFetch, err)
	}

	return e.Migrate(ctx, playlists, sink)
}

// Migrate processes the given playlists in order and returns the aggregated
// summary. The returned error is non-nil only for pre-run failures; playlist
// and track errors are recorded in the summary's reports instead.
func (e *MigrationEngine) Migrate(ctx context.Context, playlists []models.Playlist, sink ProgressSink) (*models.MigrationSummary, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: source service not initialized", shared.ErrServiceUnavailable)
	}
	if e.dest == nil {
		return nil, fmt.Errorf("%w: destination service not initialized", shared.ErrServiceUnavailable)
	}

	e.emit(sink, startedEvent(len(playlists)))
	e.logger.Info("migration started", "playlists", len(playlists), "destination", e.dest.Name())

	summary := &models.MigrationSummary{}
	for i, playlist := range playlists {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		report := e.migratePlaylist(ctx, playlist, i+1, len(playlists), sink)
		summary.Add(report)
	}

	e.emit(sink, completedEvent(summary))
	e.logger.Info("migration complete",
		"playlists", summary.TotalPlaylists,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"matched", summary.MatchedTracks,
		"unmatched", summary.UnmatchedTracks)

	return summary, nil
}

// migratePlaylist runs the per-playlist state machine: load tracks, create the
// destination playlist, match each track, add matched videos in batches.
// Always returns a report; never an error.
func (e *MigrationEngine) migratePlaylist(ctx context.Context, playlist models.Playlist, index, total int, sink ProgressSink) models.PlaylistMigrationReport {
	report := models.PlaylistMigrationReport{SourcePlaylist: playlist}

	e.emit(sink, playlistStartedEvent(index, total, playlist.Name))

	tracks, err := e.source.GetPlaylistTracks(ctx, playlist.ID)
	if err != nil {
		report.FailureReason = fmt.Sprintf("failed to load tracks: %v", err)
		e.logger.Error("track load failed", "playlist", playlist.Name, "err", err)
		e.emit(sink, errorEvent(playlist.Name, report.FailureReason))
		return report
	}

	e.emit(sink, tracksLoadedEvent(playlist.Name, len(tracks)))

	if len(tracks) == 0 {
		report.FailureReason = "playlist has no tracks"
		e.emit(sink, errorEvent(playlist.Name, report.FailureReason))
		return report
	}

	report.TotalTracks = len(tracks)

	title := e.titlePrefix + playlist.Name
	description := playlist.Description
	if description == "" {
		description = fallbackDescription
	}

	destID, err := e.dest.CreatePlaylist(ctx, title, description, false)
	if err == nil && destID == "" {
		err = fmt.Errorf("%w: destination returned an empty playlist ID", shared.ErrPlaylistCreation)
	}
	if err != nil {
		report.FailureReason = fmt.Sprintf("failed to create destination playlist: %v", err)
		e.logger.Error("playlist creation failed", "playlist", playlist.Name, "err", err)
		e.emit(sink, errorEvent(playlist.Name, report.FailureReason))
		return report
	}

	report.DestinationPlaylistID = destID
	e.emit(sink, playlistCreatedEvent(destID, title))

	matchedIDs := make([]string, 0, len(tracks))
	for i, track := range tracks {
		label := track.Label()
		e.emit(sink, trackProgressEvent(i+1, len(tracks), label, TrackStatusSearching, 0))

		candidates, err := e.dest.SearchCandidates(ctx, track.Title, track.Artist, e.searchLimit)
		if err != nil {
			report.UnmatchedCount++
			report.UnmatchedLabels = append(report.UnmatchedLabels, label)
			e.logger.Warn("search failed", "track", label, "err", err)
			e.emit(sink, errorEvent(playlist.Name, fmt.Sprintf("search failed for %s: %v", label, err)))
			e.emit(sink, trackProgressEvent(i+1, len(tracks), label, TrackStatusUnmatched, 0))
			continue
		}

		result := match.Best(track, candidates)
		if result.Candidate == nil || result.Candidate.DestinationID == "" {
			report.UnmatchedCount++
			report.UnmatchedLabels = append(report.UnmatchedLabels, label)
			e.emit(sink, trackProgressEvent(i+1, len(tracks), label, TrackStatusUnmatched, result.Confidence))
			continue
		}

		report.MatchedCount++
		matchedIDs = append(matchedIDs, result.Candidate.DestinationID)
		e.emit(sink, trackProgressEvent(i+1, len(tracks), label, TrackStatusMatched, result.Confidence))
	}

	e.addInBatches(ctx, destID, matchedIDs, &report, sink)

	e.emit(sink, playlistCompletedEvent(playlist.Name, report.MatchedCount, report.UnmatchedCount))
	return report
}

// addInBatches adds matched video IDs to the destination playlist in chunks.
// A failed chunk is recorded on the report and the remaining chunks still run.
func (e *MigrationEngine) addInBatches(ctx context.Context, destID string, ids []string, report *models.PlaylistMigrationReport, sink ProgressSink) {
	for start := 0; start < len(ids); start += e.batchSize {
		end := start + e.batchSize
		if end > len(ids) {
			end = len(ids)
		}

		if err := e.dest.AddTracks(ctx, destID, ids[start:end]); err != nil {
			e.logger.Error("batch add failed", "playlist_id", destID, "batch_start", start, "err", err)
			if report.AddError == "" {
				report.AddError = err.Error()
			}
			e.emit(sink, errorEvent(report.SourcePlaylist.Name, fmt.Sprintf("failed to add tracks: %v", err)))
		}
	}
}
