// Package models defines domain values and persistence interfaces for the playlist generator.
//
// The package contains two categories of types:
//
// 1. Values produced from catalog responses:
//   - [Track] : a harvested song with its [NameKey] dedup identity
//   - [Artist] : an artist search result
//   - [Playlist] : the assembled result
//
// 2. Persistent entities:
//   - [PersistedArtist] : a cached artist-name resolution
//
// Persistent entities implement the [Model] interface; [Repository] defines the CRUD surface used by the SQLite layer.
package models
