package main

import (
	"context"
	"fmt"

	"github.com/fernwalter/tunex/internal/shared"
	"github.com/urfave/cli/v3"
)

// DestSearch searches the destination for track candidates.
func (r *Runner) DestSearch(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	artist := cmd.String("artist")
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")

	if title == "" {
		return fmt.Errorf("%w: a title argument is required", shared.ErrMissingArgument)
	}

	if err := r.restoreDestSession(ctx); err != nil {
		return err
	}

	candidates, err := r.dest.SearchCandidates(ctx, title, artist, limit)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(candidates, true)
	}

	r.writePlain("Found %d candidates:\n\n", len(candidates))
	for i, candidate := range candidates {
		r.writePlain("%d. %s - %s\n", i+1, candidate.Title, candidate.Artist)
		r.writePlain("   ID: %s\n", candidate.DestinationID)
		if candidate.DurationMS > 0 {
			r.writePlain("   Duration: %s\n", shared.FormatDuration(candidate.DurationMS))
		}
	}

	return nil
}

// DestCreate creates a playlist on the destination.
func (r *Runner) DestCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	description := cmd.String("description")
	public := cmd.Bool("public")

	if name == "" {
		return fmt.Errorf("%w: a playlist name is required", shared.ErrMissingArgument)
	}

	if err := r.restoreDestSession(ctx); err != nil {
		return err
	}

	playlistID, err := r.dest.CreatePlaylist(ctx, name, description, public)
	if err != nil {
		return err
	}

	r.logger.Info("playlist created", "id", playlistID, "name", name)
	r.writePlain("✓ Created playlist %q\n", name)
	r.writePlain("  ID: %s\n", playlistID)
	r.writePlain("  Visibility: %s\n", shared.VisibilityString(public))
	return nil
}

// DestDelete deletes a playlist on the destination.
func (r *Runner) DestDelete(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")

	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: pass --yes to confirm deleting playlist %s", shared.ErrInvalidArgument, playlistID)
	}

	if err := r.restoreDestSession(ctx); err != nil {
		return err
	}

	if err := r.dest.DeletePlaylist(ctx, playlistID); err != nil {
		return err
	}

	r.logger.Info("playlist deleted", "id", playlistID)
	return r.writePlain("✓ Deleted playlist %s\n", playlistID)
}
