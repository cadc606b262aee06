package sampler

import (
	"context"
	"maps"
	"strings"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/models"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/services"
)

const (
	trackPageSize = 50

	UnknownTrack  = "Unknown Track"
	UnknownArtist = "Unknown Artist"
)

// HarvestOpts restricts which tracks [HarvestTracks] keeps.
type HarvestOpts struct {
	// AllowedArtistIDs keeps tracks crediting at least one of these artists. Nil keeps everything.
	AllowedArtistIDs map[string]struct{}
	// SoloOnly keeps tracks whose credited artist set equals AllowedArtistIDs exactly.
	// Ignored when AllowedArtistIDs is nil.
	SoloOnly bool
}

// AllowArtists builds an allowed artist set.
func AllowArtists(ids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// HarvestTracks reads every page of an album's track listing and converts the kept items to [models.Track].
//
// Items without an id are skipped. Missing names fall back to [UnknownTrack] and [UnknownArtist],
// a missing link to an empty string.
func HarvestTracks(ctx context.Context, catalog services.Catalog, albumID string, opts HarvestOpts) ([]models.Track, error) {
	tracks := []models.Track{}

	page, err := catalog.AlbumTracks(ctx, albumID, trackPageSize, 0)
	if err != nil {
		return nil, err
	}

	for page != nil {
		for _, item := range page.Items {
			if item.ID == "" || !opts.allows(item.Artists) {
				continue
			}
			tracks = append(tracks, toTrack(item))
		}

		if !page.HasNext() {
			break
		}
		if page, err = catalog.NextTracks(ctx, page); err != nil {
			return nil, err
		}
	}

	return tracks, nil
}

func (o HarvestOpts) allows(artists []services.ArtistRef) bool {
	if o.AllowedArtistIDs == nil {
		return true
	}

	credited := make(map[string]struct{}, len(artists))
	for _, a := range artists {
		if a.ID != "" {
			credited[a.ID] = struct{}{}
		}
	}

	overlaps := false
	for id := range credited {
		if _, ok := o.AllowedArtistIDs[id]; ok {
			overlaps = true
			break
		}
	}
	if !overlaps {
		return false
	}

	if o.SoloOnly {
		return maps.EqualFunc(credited, o.AllowedArtistIDs, func(struct{}, struct{}) bool { return true })
	}
	return true
}

func toTrack(item services.TrackItem) models.Track {
	name := item.Name
	if name == "" {
		name = UnknownTrack
	}

	artist := UnknownArtist
	if len(item.Artists) > 0 {
		names := make([]string, 0, len(item.Artists))
		for _, a := range item.Artists {
			names = append(names, a.Name)
		}
		if joined := strings.Join(names, ", "); joined != "" {
			artist = joined
		}
	}

	return models.Track{
		ID:         item.ID,
		Name:       name,
		Artist:     artist,
		SpotifyURL: item.ExternalURLs["spotify"],
	}
}
