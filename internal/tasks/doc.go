// Package tasks turns artist names into an exported playlist with real-time progress reporting.
//
// # Core Operations
//
// The [Generator] interface defines three operations:
//
//  1. [Generator.Resolve] : artist name → catalog artist
//     - Searches the catalog for up to ten candidates
//     - Prefers a case-insensitive exact name match, then the most popular candidate
//
//  2. [Generator.Build] : artist names → playlist
//     - Keeps the first [MaxArtists] names and reports the rest as truncated
//     - Resolves each name, reporting the ones the catalog does not know
//     - Samples and assembles the playlist with [sampler.Assembler]
//     - Fails with [shared.ErrNoArtistsResolved] only when no name resolves
//
//  3. [Generator.Export] : playlist → file in any [formatter.Formats] format
//
// # Progress Reporting
//
// # All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Artist Caching
//
// The optional [ArtistCacher] interface lets repeated builds skip the artist search.
//
// Cache failures are logged and otherwise ignored so they never fail a build.
//
// # Implementation
//
// [PlaylistEngine] implements [Generator] with dependencies on:
//   - [services.Catalog] : Spotify Web API client
//   - [ArtistCacher] : Optional persistence layer (repositories.ArtistCacheAdapter)
package tasks
