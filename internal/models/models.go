// package models defines the data model for the playlist generator
package models

import (
	"strings"
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Track is a single playable catalog entry. Values are never mutated once harvested.
type Track struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Artist     string `json:"artist" yaml:"artist"` // comma-joined names of every credited artist
	SpotifyURL string `json:"spotify_url" yaml:"spotify_url"`
}

// NameKey is the secondary identity of a track: lowercased, trimmed name and artist.
//
// Two tracks with different IDs but the same NameKey are the same song (reissues, remasters).
func (t Track) NameKey() NameKey {
	return NameKey{
		Name:   strings.ToLower(strings.TrimSpace(t.Name)),
		Artist: strings.ToLower(strings.TrimSpace(t.Artist)),
	}
}

// NameKey is a comparable (name, artist) pair used as a map key.
type NameKey struct {
	Name   string
	Artist string
}

// Artist is a catalog artist as returned by an artist search.
type Artist struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Popularity int    `json:"popularity" yaml:"popularity"`
}

// Playlist is an assembled, ordered, deduplicated track list.
type Playlist struct {
	ID      string   `json:"id" yaml:"id"`
	Artists []Artist `json:"artists" yaml:"artists"`
	Tracks  []Track  `json:"tracks" yaml:"tracks"`
}
