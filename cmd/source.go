package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fernwalter/tunex/internal/shared"
	"github.com/urfave/cli/v3"
)

// SourcePlaylists lists source playlists with an optional limit.
func (r *Runner) SourcePlaylists(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")

	if err := r.restoreSourceSession(ctx); err != nil {
		return err
	}

	r.logger.Infof("listing source playlists with limit %v", limit)

	playlists, err := r.source.GetPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}

	if limit > 0 && limit < len(playlists) {
		playlists = playlists[:limit]
	}

	if save {
		saveFile := "spotify_playlists.json"
		data, err := shared.MarshalJSON(playlists, true)
		if err != nil {
			return fmt.Errorf("failed to marshal playlists: %w", err)
		}
		if err := os.WriteFile(saveFile, data, 0644); err != nil {
			r.logger.Warn("failed to save playlists", "error", err)
		} else {
			r.logger.Info("playlists saved", "file", saveFile)
		}
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %d\n", p.TrackCount)
		r.writePlain("   Visibility: %s\n", shared.VisibilityString(p.Public))
		r.writePlain("\n")
	}

	return nil
}

// SourceTracks lists the tracks of one source playlist.
func (r *Runner) SourceTracks(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if err := r.restoreSourceSession(ctx); err != nil {
		return err
	}

	r.logger.Infof("listing tracks for playlist %v", playlistID)

	tracks, err := r.source.GetPlaylistTracks(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(tracks, pretty)
	}

	r.writePlain("Found %d tracks:\n\n", len(tracks))
	for i, track := range tracks {
		r.writePlain("%d. %s\n", i+1, track.Label())
		if track.Album != "" {
			r.writePlain("   Album: %s\n", track.Album)
		}
		if track.DurationMS > 0 {
			r.writePlain("   Duration: %s\n", shared.FormatDuration(track.DurationMS))
		}
	}

	return nil
}
