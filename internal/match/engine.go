package match

import (
	"github.com/fernwalter/tunex/internal/models"
)

// Scoring parameters, chosen to favor title agreement over artist agreement.
// The bonus rewards candidates that clear both bars at once, which can push a
// near-perfect score slightly above 1.0; the raw value is kept as-is.
const (
	titleWeight      = 0.6
	artistWeight     = 0.4
	bonusTitleFloor  = 0.8
	bonusArtistFloor = 0.7
	bonus            = 0.1

	// AcceptThreshold is the minimum blended score for a candidate to be
	// accepted as "the same song".
	AcceptThreshold = 0.6
)

// Score returns the blended title/artist similarity between a source track
// and one destination candidate.
func Score(track models.Track, candidate models.MatchCandidate) float64 {
	titleSim := Similarity(track.Title, candidate.Title)
	artistSim := Similarity(track.Artist, candidate.Artist)

	score := titleWeight*titleSim + artistWeight*artistSim
	if titleSim > bonusTitleFloor && artistSim > bonusArtistFloor {
		score += bonus
	}
	return score
}

// Best selects the destination candidate most likely to be the same song as
// track, or declares no match.
//
// Every candidate is scored independently; the strictly highest score wins,
// so ties keep the earliest-seen candidate (providers rank their results).
// When the best score falls below [AcceptThreshold] the result carries a nil
// candidate but still reports the score for diagnostics.
func Best(track models.Track, candidates []models.MatchCandidate) models.MatchResult {
	if len(candidates) == 0 {
		return models.MatchResult{}
	}

	var best *models.MatchCandidate
	bestScore := 0.0

	for i := range candidates {
		score := Score(track, candidates[i])
		if score > bestScore {
			bestScore = score
			best = &candidates[i]
		}
	}

	if bestScore < AcceptThreshold {
		return models.MatchResult{Confidence: bestScore}
	}

	return models.MatchResult{Candidate: best, Confidence: bestScore}
}
