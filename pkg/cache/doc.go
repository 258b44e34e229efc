// Package cache provides the optional result cache of the adlayout engine.
//
// Caching is a performance optimization only. Every consumer treats a
// cache error as a miss and recomputes, so a broken backend slows the
// engine down but never changes its output.
//
// # Backends
//
//   - [NullCache]: stores nothing (the default)
//   - [FileCache]: JSON entries on disk, used by the CLI
//   - [MemoryCache]: in-process, backed by github.com/patrickmn/go-cache
//   - [RedisCache]: shared cache for the HTTP API, backed by go-redis
//
// # Keys
//
// A [Keyer] builds keys from content hashes. Image analyses are keyed by
// the SHA-256 of the image bytes plus the analysis version, so bumping
// the version invalidates every stored analysis:
//
//	key := keyer.AnalysisKey(cache.Hash(img), vision.AnalysisVersion)
//
// [ScopedKeyer] prefixes every key for tenant isolation.
package cache
