package sampler

import (
	"context"
	"errors"
	"slices"
	"testing"

	tu "github.com/Danpaek111/spotipy-playlist-generator/internal/testing"
)

func TestHarvestTracks(t *testing.T) {
	ctx := context.Background()

	catalog := tu.NewStubCatalog().
		AddTrack("AL1", "T1", "Solo", "A1:Alpha").
		AddTrack("AL1", "T2", "Duet", "A1:Alpha", "A2:Beta").
		AddTrack("AL1", "T3", "Guest Spot", "A2:Beta").
		AddTrack("AL1", "", "No Id", "A1:Alpha")

	t.Run("Solo Only", func(t *testing.T) {
		tracks, err := HarvestTracks(ctx, catalog, "AL1", HarvestOpts{AllowedArtistIDs: AllowArtists("A1"), SoloOnly: true})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ids := tu.TrackIDs(tracks); !slices.Equal(ids, []string{"T1"}) {
			t.Errorf("expected only the solo track, got %v", ids)
		}
	})

	t.Run("Allowed Artists Intersect", func(t *testing.T) {
		tracks, err := HarvestTracks(ctx, catalog, "AL1", HarvestOpts{AllowedArtistIDs: AllowArtists("A1")})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ids := tu.TrackIDs(tracks); !slices.Equal(ids, []string{"T1", "T2"}) {
			t.Errorf("expected tracks crediting A1, got %v", ids)
		}
	})

	t.Run("Solo Only Matches Whole Set", func(t *testing.T) {
		opts := HarvestOpts{AllowedArtistIDs: AllowArtists("A1", "A2"), SoloOnly: true}
		tracks, err := HarvestTracks(ctx, catalog, "AL1", opts)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ids := tu.TrackIDs(tracks); !slices.Equal(ids, []string{"T2"}) {
			t.Errorf("expected only the track credited to exactly A1 and A2, got %v", ids)
		}
	})

	t.Run("No Filter", func(t *testing.T) {
		tracks, err := HarvestTracks(ctx, catalog, "AL1", HarvestOpts{SoloOnly: true})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ids := tu.TrackIDs(tracks); !slices.Equal(ids, []string{"T1", "T2", "T3"}) {
			t.Errorf("expected every track with an id, got %v", ids)
		}
	})

	t.Run("Display Fields", func(t *testing.T) {
		tracks, _ := HarvestTracks(ctx, catalog, "AL1", HarvestOpts{})
		duet := tracks[1]
		if duet.Artist != "Alpha, Beta" {
			t.Errorf("expected joined artist names, got %q", duet.Artist)
		}
		if duet.SpotifyURL != "https://open.spotify.com/track/T2" {
			t.Errorf("unexpected url %q", duet.SpotifyURL)
		}
	})

	t.Run("Missing Fields Fall Back", func(t *testing.T) {
		sparse := tu.NewStubCatalog().AddTrack("AL9", "T9", "")
		sparse.Tracks["AL9"][0].ExternalURLs = nil

		tracks, err := HarvestTracks(ctx, sparse, "AL9", HarvestOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 1 {
			t.Fatalf("expected 1 track, got %d", len(tracks))
		}

		got := tracks[0]
		if got.Name != UnknownTrack || got.Artist != UnknownArtist || got.SpotifyURL != "" {
			t.Errorf("expected sentinels, got %+v", got)
		}
	})

	t.Run("Exhaustive Pagination", func(t *testing.T) {
		long := tu.NewStubCatalog().AddSoloTracks("BIG", "A1", "Alpha", "Song", 120)

		tracks, err := HarvestTracks(ctx, long, "BIG", HarvestOpts{AllowedArtistIDs: AllowArtists("A1")})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 120 {
			t.Errorf("expected all 120 tracks, got %d", len(tracks))
		}
		if len(long.TrackRequests) != 3 {
			t.Errorf("expected 3 pages of 50, got %d requests", len(long.TrackRequests))
		}
	})

	t.Run("Empty Album", func(t *testing.T) {
		tracks, err := HarvestTracks(ctx, tu.NewStubCatalog(), "NONE", HarvestOpts{})
		if err != nil || tracks == nil || len(tracks) != 0 {
			t.Errorf("expected empty slice, got %#v, %v", tracks, err)
		}
	})

	t.Run("Catalog Error", func(t *testing.T) {
		broken := tu.NewStubCatalog()
		broken.TrackErr = errors.New("boom")

		if _, err := HarvestTracks(ctx, broken, "AL1", HarvestOpts{}); !errors.Is(err, broken.TrackErr) {
			t.Errorf("expected catalog error to propagate, got %v", err)
		}
	})
}
