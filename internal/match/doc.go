// Package match implements the track-matching engine.
//
// Matching is pure text comparison: no network calls, no audio analysis.
// [Normalize] canonicalizes free text, [Similarity] computes the
// Ratcliff/Obershelp ratio over normalized inputs, and [Best] scores a
// source track against destination search candidates with a weighted
// title/artist blend.
//
// All functions are deterministic given identical candidate ordering and
// never mutate their inputs.
package match
