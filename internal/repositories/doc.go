// Package repositories implements SQLite persistence for the artist resolution cache.
//
// Repositories handle CRUD operations with atomic sequence generation for human-readable ordering.
// Rows are soft-deleted via deleted_at timestamps and excluded from queries by default.
//
// Key Implementations:
//   - [ArtistRepository] : Artist search resolutions keyed by normalized query
//   - [ArtistCacheAdapter] : Adapts [ArtistRepository] to the build engine's cache interface
//
// Sequence numbers provide stable, human-readable ordering (e.g., cache entry #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
