// package services defines interface Catalog for reading a remote music catalog over HTTP
//
// Spotify
package services

import (
	"context"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/models"
)

// Album types accepted by [Catalog.ArtistAlbums].
const (
	AlbumTypeAlbum       = "album"
	AlbumTypeSingle      = "single"
	AlbumTypeCompilation = "compilation"
	AlbumTypeAppearsOn   = "appears_on"
)

// Catalog defines the read-only catalog operations the playlist generator depends on.
//
// Pages carry an opaque next cursor; NextAlbums and NextTracks return a nil page once the cursor is exhausted.
type Catalog interface {
	// SearchArtists returns up to limit artists matching name, or an empty slice.
	SearchArtists(ctx context.Context, name string, limit int) ([]models.Artist, error)

	// ArtistAlbums returns the first page of an artist's releases filtered by query.
	ArtistAlbums(ctx context.Context, artistID string, query AlbumQuery) (*AlbumPage, error)

	// NextAlbums follows the next cursor of page.
	NextAlbums(ctx context.Context, page *AlbumPage) (*AlbumPage, error)

	// AlbumTracks returns one page of an album's track listing.
	AlbumTracks(ctx context.Context, albumID string, limit, offset int) (*TrackPage, error)

	// NextTracks follows the next cursor of page.
	NextTracks(ctx context.Context, page *TrackPage) (*TrackPage, error)

	// Name returns the name of the catalog (e.g., "Spotify")
	Name() string
}

// AlbumQuery filters an artist album listing.
type AlbumQuery struct {
	Types  []string // Release groups, e.g. album, single
	Market string   // ISO 3166-1 alpha-2 country code
	Limit  int
	Offset int
}

// ArtistRef is an artist credit on an album or track.
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AlbumItem is a simplified album from an artist album listing.
type AlbumItem struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	AlbumType string      `json:"album_type"`
	Artists   []ArtistRef `json:"artists"`
}

// AlbumPage represents a paginated artist album listing.
type AlbumPage struct {
	Items  []AlbumItem `json:"items"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
	Next   *string     `json:"next"`
}

// HasNext reports whether another page follows.
func (p *AlbumPage) HasNext() bool {
	return p != nil && p.Next != nil && *p.Next != ""
}

// TrackItem is a simplified track from an album track listing.
type TrackItem struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Artists      []ArtistRef       `json:"artists"`
	ExternalURLs map[string]string `json:"external_urls"`
	TrackNumber  int               `json:"track_number"`
}

// TrackPage represents a paginated album track listing.
type TrackPage struct {
	Items  []TrackItem `json:"items"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
	Next   *string     `json:"next"`
}

// HasNext reports whether another page follows.
func (p *TrackPage) HasNext() bool {
	return p != nil && p.Next != nil && *p.Next != ""
}
