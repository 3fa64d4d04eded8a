package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fernwalter/tunex/internal/formatter"
	"github.com/fernwalter/tunex/internal/models"
	"github.com/fernwalter/tunex/internal/repositories"
	"github.com/fernwalter/tunex/internal/shared"
	"github.com/fernwalter/tunex/internal/tasks"
	"github.com/urfave/cli/v3"
)

// repositoryHandle pairs an open database with its history repository so
// command actions can close both with one call.
type repositoryHandle struct {
	db   *sql.DB
	repo *repositories.MigrationRepository
}

func newRepositoryHandle(db *sql.DB) *repositoryHandle {
	return &repositoryHandle{db: db, repo: repositories.NewMigrationRepository(db)}
}

func (h *repositoryHandle) Close() error { return h.db.Close() }

// MigrateRun migrates playlists from the source to the destination, streaming
// progress to the terminal.
func (r *Runner) MigrateRun(ctx context.Context, cmd *cli.Command) error {
	playlistIDs := cmd.StringSlice("playlist")
	exportBase := cmd.String("export")
	useJSON := cmd.Bool("json")
	skipHistory := cmd.Bool("no-history")

	if err := r.restoreSourceSession(ctx); err != nil {
		return err
	}
	if err := r.restoreDestSession(ctx); err != nil {
		return err
	}

	user, err := r.source.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("%w: source session rejected: %w", shared.ErrAuthFailed, err)
	}
	r.logger.Info("starting migration", "user", user, "source", r.source.Name(), "dest", r.dest.Name())

	sink := tasks.NewConsoleSink(r.output)

	var summary *models.MigrationSummary
	if len(playlistIDs) == 0 {
		summary, err = r.engine.Run(ctx, sink)
	} else {
		var playlists []models.Playlist
		playlists, err = r.selectPlaylists(ctx, playlistIDs)
		if err != nil {
			return err
		}
		summary, err = r.engine.Migrate(ctx, playlists, sink)
	}
	if err != nil {
		return err
	}

	if !skipHistory {
		if historyErr := r.recordHistory(summary); historyErr != nil {
			r.logger.Warn("failed to record migration history", "err", historyErr)
		}
	}

	if exportBase != "" {
		result, exportErr := formatter.WriteSummaryExport(summary, exportBase)
		if exportErr != nil {
			return exportErr
		}
		r.writePlain("\nReport written to %s\n", result.ReportFile)
		if result.UnmatchedFile != "" {
			r.writePlain("Unmatched tracks written to %s\n", result.UnmatchedFile)
		}
	}

	if useJSON {
		return r.writeJSON(summary, true)
	}

	return r.writePlain("%s", formatter.SummaryToText(summary))
}

// selectPlaylists resolves the requested playlist IDs against the source
// catalog, rejecting IDs the catalog does not contain.
func (r *Runner) selectPlaylists(ctx context.Context, ids []string) ([]models.Playlist, error) {
	catalog, err := r.source.GetPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrCatalogFetch, err)
	}

	byID := make(map[string]models.Playlist, len(catalog))
	for _, playlist := range catalog {
		byID[playlist.ID] = playlist
	}

	selected := make([]models.Playlist, 0, len(ids))
	for _, id := range ids {
		playlist, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
		}
		selected = append(selected, playlist)
	}

	return selected, nil
}

// recordHistory persists one record per processed playlist.
func (r *Runner) recordHistory(summary *models.MigrationSummary) error {
	repo, err := r.openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	for _, report := range summary.Reports {
		if err := repo.repo.Create(models.NewMigrationRecord(report)); err != nil {
			return fmt.Errorf("failed to record %q: %w", report.SourcePlaylist.Name, err)
		}
	}

	return nil
}

// historyRow is the serializable view of a migration record.
type historyRow struct {
	ID              string    `json:"id"`
	Sequence        int       `json:"sequence"`
	SourcePlaylist  string    `json:"source_playlist"`
	DestinationID   string    `json:"destination_id,omitempty"`
	Status          string    `json:"status"`
	TracksTotal     int       `json:"tracks_total"`
	TracksMatched   int       `json:"tracks_matched"`
	TracksUnmatched int       `json:"tracks_unmatched"`
	Error           string    `json:"error,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// MigrateHistory lists recorded migrations, newest first.
func (r *Runner) MigrateHistory(ctx context.Context, cmd *cli.Command) error {
	status := cmd.String("status")
	useJSON := cmd.Bool("json")

	repo, err := r.openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	criteria := map[string]any{}
	if status != "" {
		criteria["status"] = status
	}

	records, err := repo.repo.List(criteria)
	if err != nil {
		return err
	}

	if useJSON {
		rows := make([]historyRow, 0, len(records))
		for _, record := range records {
			rows = append(rows, historyRow{
				ID:              record.ID(),
				Sequence:        record.Sequence(),
				SourcePlaylist:  record.SourcePlaylistName(),
				DestinationID:   record.DestinationPlaylistID(),
				Status:          record.Status(),
				TracksTotal:     record.TracksTotal(),
				TracksMatched:   record.TracksMatched(),
				TracksUnmatched: record.TracksUnmatched(),
				Error:           record.ErrorMessage(),
				CreatedAt:       record.CreatedAt(),
			})
		}
		return r.writeJSON(rows, true)
	}

	if len(records) == 0 {
		return r.writePlain("No migrations recorded.\n")
	}

	r.writePlain("%d migration(s):\n\n", len(records))
	for _, record := range records {
		r.writePlain("#%d  %s  [%s]\n", record.Sequence(), record.SourcePlaylistName(), record.Status())
		r.writePlain("    ID: %s\n", record.ID())
		if record.DestinationPlaylistID() != "" {
			r.writePlain("    Destination: %s\n", record.DestinationPlaylistID())
		}
		r.writePlain("    Tracks: %d/%d matched\n", record.TracksMatched(), record.TracksTotal())
		if record.ErrorMessage() != "" {
			r.writePlain("    Error: %s\n", record.ErrorMessage())
		}
		r.writePlain("    Date: %s\n\n", record.CreatedAt().Format(time.RFC3339))
	}

	return nil
}

// MigrateForget soft-deletes a migration record.
func (r *Runner) MigrateForget(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")

	repo, err := r.openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.repo.Delete(id); err != nil {
		return err
	}

	return r.writePlain("✓ Removed migration record %s\n", id)
}
