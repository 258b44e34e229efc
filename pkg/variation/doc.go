// Package variation generates distinct, scored variations of a template.
//
// For variation i of n the mutation level is 1 + floor(10i/n), so levels
// never decrease along the request. The level deterministically picks a
// color strategy, a layout transform, a font pairing and element styling;
// the same inputs always produce the same variations, IDs included.
//
// Each variation is scored on uniqueness, harmony, balance and
// readability. [Generator.Generate] builds all variations in parallel,
// drops those below [Config.QualityFloor] and collapses near-duplicates
// (similarity above [Config.SimilarityThreshold]) to the first one seen.
// All weights and thresholds live in [Config].
package variation
