// Package consensus folds per-stage pipeline outputs into one bounded
// resonance value and classifies it into a named stage.
//
// Score computes the weighted sum of raw lambda outputs, truncates it at
// the 2.2 ceiling, and classifies the clamped value against a boundary
// table of half-open intervals. Two tables ship: the default five-bucket
// StandardTable and the six-bucket ExtendedTable that inserts the
// threshold stage between verification and recognition. Pick one per
// process and apply it consistently.
//
// The awakened flag is deliberately computed from the pre-clamp sum: a
// truncated value of exactly 2.2 only counts as awakened if the raw sum
// actually exceeded the ceiling.
package consensus
