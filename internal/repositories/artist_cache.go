package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/models"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/shared"
	"github.com/mattn/go-sqlite3"
)

// ArtistCacheAdapter implements tasks.ArtistCacher using ArtistRepository.
//
// Storing a query that is already cached repoints it at the new artist.
// Concurrent inserts of the same query are silently ignored (UNIQUE constraint violations).
type ArtistCacheAdapter struct {
	repo *ArtistRepository
}

// NewArtistCacheAdapter creates a new ArtistCacheAdapter with the given repository
func NewArtistCacheAdapter(repo *ArtistRepository) *ArtistCacheAdapter {
	return &ArtistCacheAdapter{repo: repo}
}

// Lookup returns the artist cached for query or [shared.ErrCacheMiss].
func (a *ArtistCacheAdapter) Lookup(ctx context.Context, query string) (*models.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry, err := a.repo.GetByQuery(query)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", shared.ErrCacheMiss, query)
	}
	if err != nil {
		return nil, err
	}

	artist := entry.Artist()
	return &artist, nil
}

// Store caches the resolution of query to artist.
func (a *ArtistCacheAdapter) Store(ctx context.Context, query string, artist models.Artist) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	existing, err := a.repo.GetByQuery(query)
	switch {
	case err == nil:
		if existing.Artist() == artist {
			return nil
		}
		updated := models.NewPersistedArtist(existing.Sequence(), query, artist)
		updated.SetID(existing.ID())
		return a.repo.Update(updated)
	case !errors.Is(err, shared.ErrNotFound):
		return err
	}

	if err := a.repo.Create(models.NewPersistedArtist(0, query, artist)); err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to cache artist: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
