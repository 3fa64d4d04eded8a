package main

import (
	"context"

	"github.com/fernwalter/tunex/internal/match"
	"github.com/fernwalter/tunex/internal/models"
	"github.com/urfave/cli/v3"
)

// MatchScore scores one candidate against one source track and prints the
// component similarities alongside the combined score.
func (r *Runner) MatchScore(ctx context.Context, cmd *cli.Command) error {
	track := models.Track{
		Title:  cmd.String("title"),
		Artist: cmd.String("artist"),
	}
	candidate := models.MatchCandidate{
		Title:  cmd.String("candidate-title"),
		Artist: cmd.String("candidate-artist"),
	}

	titleSim := match.Similarity(track.Title, candidate.Title)
	artistSim := match.Similarity(track.Artist, candidate.Artist)
	score := match.Score(track, candidate)

	r.writePlain("Track:     %s\n", track.Label())
	r.writePlain("Candidate: %s - %s\n\n", candidate.Title, candidate.Artist)
	r.writePlain("Title similarity:  %.4f\n", titleSim)
	r.writePlain("Artist similarity: %.4f\n", artistSim)
	r.writePlain("Combined score:    %.4f\n", score)

	if score >= match.AcceptThreshold {
		r.writePlain("Verdict: accept\n")
	} else {
		r.writePlain("Verdict: reject (threshold %.2f)\n", match.AcceptThreshold)
	}

	return nil
}

// MatchProbe runs a real destination search for a track and scores every
// candidate the way a migration would.
func (r *Runner) MatchProbe(ctx context.Context, cmd *cli.Command) error {
	track := models.Track{
		Title:  cmd.String("title"),
		Artist: cmd.String("artist"),
	}
	limit := cmd.Int("limit")

	if err := r.restoreDestSession(ctx); err != nil {
		return err
	}

	candidates, err := r.dest.SearchCandidates(ctx, track.Title, track.Artist, limit)
	if err != nil {
		return err
	}

	r.writePlain("Track: %s\n", track.Label())
	r.writePlain("Candidates: %d\n\n", len(candidates))
	for i, candidate := range candidates {
		r.writePlain("%d. %s - %s  (score %.4f)\n", i+1, candidate.Title, candidate.Artist, match.Score(track, candidate))
	}

	result := match.Best(track, candidates)
	if result.Candidate != nil {
		r.writePlain("\nBest match: %s (confidence %.4f)\n", result.Candidate.Title, result.Confidence)
	} else {
		r.writePlain("\nNo acceptable match (best confidence %.4f)\n", result.Confidence)
	}

	return nil
}
