package models

import (
	"errors"
	"time"
)

// PersistedArtist is a cached artist search resolution: the query that was searched and the artist it resolved to.
type PersistedArtist struct {
	id        string
	sequence  int
	query     string
	artist    Artist
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewPersistedArtist creates a cache entry for the given normalized query.
func NewPersistedArtist(sequence int, query string, artist Artist) *PersistedArtist {
	now := time.Now()
	return &PersistedArtist{
		sequence:  sequence,
		query:     query,
		artist:    artist,
		createdAt: now,
		updatedAt: now,
	}
}

func (a *PersistedArtist) ID() string                { return a.id }
func (a *PersistedArtist) Sequence() int             { return a.sequence }
func (a *PersistedArtist) Query() string             { return a.query }
func (a *PersistedArtist) Artist() Artist            { return a.artist }
func (a *PersistedArtist) CreatedAt() time.Time      { return a.createdAt }
func (a *PersistedArtist) UpdatedAt() time.Time      { return a.updatedAt }
func (a *PersistedArtist) DeletedAt() *time.Time     { return a.deletedAt }
func (a *PersistedArtist) SetID(id string)           { a.id = id }
func (a *PersistedArtist) SetSequence(seq int)       { a.sequence = seq }
func (a *PersistedArtist) SetCreatedAt(t time.Time)  { a.createdAt = t }
func (a *PersistedArtist) SetUpdatedAt(t time.Time)  { a.updatedAt = t }
func (a *PersistedArtist) SetDeletedAt(t *time.Time) { a.deletedAt = t }

// Validate checks that the entry can be stored.
func (a *PersistedArtist) Validate() error {
	if a.query == "" {
		return errors.New("query is required")
	}
	if a.artist.ID == "" {
		return errors.New("artist id is required")
	}
	return nil
}
