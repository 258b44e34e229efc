// Package vision analyzes product images for the adaptive layout engine.
//
// An [Analyzer] turns image bytes into an [Analysis]: where the product
// sits on the canvas, how its visual weight is distributed, which regions
// are free for text and which colors dominate. Three analyzers ship with
// the package:
//
//   - [ImageAnalyzer]: local pixel statistics, no network
//   - [HTTPAnalyzer]: a remote vision endpoint, rate limited and retried
//   - [CachedAnalyzer]: wraps either with a content-hash cache
//
// Analysis is the one collaborator call that is slow and fallible. Callers
// go through [Resilient], which bounds it with a timeout and substitutes
// the fixed [Heuristic] analysis on any failure. The substitution is never
// silent: the returned Analysis has Heuristic set.
package vision
