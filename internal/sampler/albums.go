package sampler

import (
	"context"
	"slices"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/services"
)

const (
	// albumPageSize caps a single artist album request.
	albumPageSize = 10
	// DefaultMarket is the catalog region albums are listed for when none is configured.
	DefaultMarket = "US"
)

// AlbumTypes are the release groups sampled; compilations and appearances are excluded.
var AlbumTypes = []string{services.AlbumTypeAlbum, services.AlbumTypeSingle}

// EnumerateAlbums returns up to limit distinct album ids credited to artistID, in catalog order.
//
// Releases that list artistID among their artists are kept; anything else the listing returns
// (collaborations under another primary artist) is skipped. An artist with no releases yields
// an empty slice. Catalog errors are returned unchanged.
func EnumerateAlbums(ctx context.Context, catalog services.Catalog, artistID string, limit int, market string) ([]string, error) {
	albums := []string{}
	if limit <= 0 {
		return albums, nil
	}
	if market == "" {
		market = DefaultMarket
	}

	page, err := catalog.ArtistAlbums(ctx, artistID, services.AlbumQuery{
		Types:  AlbumTypes,
		Market: market,
		Limit:  min(albumPageSize, limit-len(albums)),
		Offset: 0,
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for page != nil && len(albums) < limit {
		for _, item := range page.Items {
			if !credits(item.Artists, artistID) || item.ID == "" {
				continue
			}
			if _, ok := seen[item.ID]; ok {
				continue
			}

			seen[item.ID] = struct{}{}
			albums = append(albums, item.ID)
			if len(albums) >= limit {
				break
			}
		}

		if len(albums) >= limit || len(page.Items) == 0 || !page.HasNext() {
			break
		}

		if page, err = catalog.NextAlbums(ctx, page); err != nil {
			return nil, err
		}
	}

	return albums, nil
}

func credits(artists []services.ArtistRef, artistID string) bool {
	return slices.ContainsFunc(artists, func(a services.ArtistRef) bool { return a.ID == artistID })
}
