package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/models"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/sampler"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/services"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/shared"
	tu "github.com/Danpaek111/spotipy-playlist-generator/internal/testing"
)

type memoryCache struct {
	entries   map[string]models.Artist
	lookupErr error
	storeErr  error
	stored    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]models.Artist{}}
}

func (m *memoryCache) Lookup(ctx context.Context, query string) (*models.Artist, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	a, ok := m.entries[query]
	if !ok {
		return nil, shared.ErrCacheMiss
	}
	return &a, nil
}

func (m *memoryCache) Store(ctx context.Context, query string, artist models.Artist) error {
	if m.storeErr != nil {
		return m.storeErr
	}
	m.entries[query] = artist
	m.stored++
	return nil
}

// newCatalog returns a stub with Radiohead (A1) and Portishead (A2), each with two albums of four solo tracks.
func newCatalog() *tu.StubCatalog {
	catalog := tu.NewStubCatalog().
		AddArtist("Radiohead", models.Artist{ID: "A1", Name: "Radiohead", Popularity: 80}).
		AddArtist("radiohead", models.Artist{ID: "A1", Name: "Radiohead", Popularity: 80}).
		AddArtist("Portishead", models.Artist{ID: "A2", Name: "Portishead", Popularity: 70})

	for _, artist := range []struct{ id, name string }{{"A1", "Radiohead"}, {"A2", "Portishead"}} {
		for i := 1; i <= 2; i++ {
			albumID := fmt.Sprintf("%s-AL%d", artist.id, i)
			catalog.AddAlbum(artist.id, albumID, services.AlbumTypeAlbum, artist.id)
			catalog.AddSoloTracks(albumID, artist.id, artist.name, "Song", 4)
		}
	}
	return catalog
}

func request(names ...string) BuildRequest {
	return BuildRequest{
		Names:      names,
		TargetSize: 6,
		Seed:       1,
		Options:    sampler.Options{AlbumsPerArtist: 20, TracksPerAlbum: 5, SoloOnly: true},
	}
}

func TestPickArtist(t *testing.T) {
	tc := []struct {
		name       string
		query      string
		candidates []models.Artist
		want       string
	}{
		{
			name:  "exact match beats popularity",
			query: "Muse",
			candidates: []models.Artist{
				{ID: "X1", Name: "Muse Tribute", Popularity: 90},
				{ID: "X2", Name: "Muse", Popularity: 60},
			},
			want: "X2",
		},
		{
			name:  "case-insensitive match",
			query: "mUsE",
			candidates: []models.Artist{
				{ID: "X1", Name: "Museum", Popularity: 90},
				{ID: "X2", Name: "Muse", Popularity: 10},
			},
			want: "X2",
		},
		{
			name:  "most popular without exact match",
			query: "beatles",
			candidates: []models.Artist{
				{ID: "X1", Name: "The Beatles Revival", Popularity: 20},
				{ID: "X2", Name: "The Beatles", Popularity: 95},
				{ID: "X3", Name: "Beatles Covers", Popularity: 40},
			},
			want: "X2",
		},
		{
			name:  "first wins ties",
			query: "twin",
			candidates: []models.Artist{
				{ID: "X1", Name: "Twins", Popularity: 50},
				{ID: "X2", Name: "Twin Peaks", Popularity: 50},
			},
			want: "X1",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := PickArtist(tt.query, tt.candidates)
			if got == nil || got.ID != tt.want {
				t.Errorf("PickArtist() = %v, want %s", got, tt.want)
			}
		})
	}

	t.Run("no candidates", func(t *testing.T) {
		if got := PickArtist("anyone", nil); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}

func TestPlaylistEngine_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown artist", func(t *testing.T) {
		engine := NewPlaylistEngine(newCatalog())
		artist, err := engine.Resolve(ctx, "Nobody")
		if err != nil || artist != nil {
			t.Errorf("expected nil artist and no error, got %v, %v", artist, err)
		}
	})

	t.Run("search error", func(t *testing.T) {
		catalog := newCatalog()
		catalog.SearchErr = shared.ErrRateLimited

		_, err := NewPlaylistEngine(catalog).Resolve(ctx, "Radiohead")
		if !errors.Is(err, shared.ErrRateLimited) {
			t.Errorf("expected ErrRateLimited, got %v", err)
		}
	})

	t.Run("nil catalog", func(t *testing.T) {
		_, err := NewPlaylistEngine(nil).Resolve(ctx, "Radiohead")
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestPlaylistEngine_Build(t *testing.T) {
	ctx := context.Background()

	t.Run("partial resolution", func(t *testing.T) {
		engine := NewPlaylistEngine(newCatalog())

		result, err := engine.Build(ctx, request("Radiohead", "Nobody"), nil)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		if len(result.Tracks) != 6 {
			t.Errorf("expected 6 tracks, got %d", len(result.Tracks))
		}
		if !slices.Equal(result.NotFound, []string{"Nobody"}) {
			t.Errorf("expected Nobody to be reported, got %v", result.NotFound)
		}
		if len(result.Artists) != 1 || result.Artists[0].ID != "A1" {
			t.Errorf("unexpected artists: %v", result.Artists)
		}
		if result.ID == "" {
			t.Error("expected a build id")
		}
	})

	t.Run("fair split", func(t *testing.T) {
		result, err := NewPlaylistEngine(newCatalog()).Build(ctx, request("Radiohead", "Portishead"), nil)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		counts := map[string]int{}
		for _, tr := range result.Tracks {
			counts[tr.Artist]++
		}
		if counts["Radiohead"] != 3 || counts["Portishead"] != 3 {
			t.Errorf("expected 3 tracks per artist, got %v", counts)
		}
	})

	t.Run("nothing resolves", func(t *testing.T) {
		_, err := NewPlaylistEngine(newCatalog()).Build(ctx, request("Nobody", "No One"), nil)
		if !errors.Is(err, shared.ErrNoArtistsResolved) {
			t.Fatalf("expected ErrNoArtistsResolved, got %v", err)
		}
		if !strings.Contains(err.Error(), "Nobody, No One") {
			t.Errorf("expected unresolved names in error, got %v", err)
		}
	})

	t.Run("no names", func(t *testing.T) {
		_, err := NewPlaylistEngine(newCatalog()).Build(ctx, request(" ", ""), nil)
		if !errors.Is(err, shared.ErrNoArtistsResolved) {
			t.Errorf("expected ErrNoArtistsResolved, got %v", err)
		}
	})

	t.Run("truncates names", func(t *testing.T) {
		catalog := newCatalog()
		names := []string{"Radiohead", "a", "b", "c", "d", "Portishead", "e"}

		result, err := NewPlaylistEngine(catalog).Build(ctx, request(names...), nil)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		if !slices.Equal(result.Truncated, []string{"Portishead", "e"}) {
			t.Errorf("unexpected truncated names: %v", result.Truncated)
		}
		if len(catalog.Searches) != MaxArtists {
			t.Errorf("expected %d searches, got %d", MaxArtists, len(catalog.Searches))
		}
		if len(result.NotFound) != 4 {
			t.Errorf("expected 4 unresolved names, got %v", result.NotFound)
		}
	})

	t.Run("custom artist limit", func(t *testing.T) {
		req := request("Radiohead", "Portishead")
		req.MaxArtists = 1

		result, err := NewPlaylistEngine(newCatalog()).Build(ctx, req, nil)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if len(result.Artists) != 1 || !slices.Equal(result.Truncated, []string{"Portishead"}) {
			t.Errorf("expected only the first artist, got %v truncated %v", result.Artists, result.Truncated)
		}
	})

	t.Run("duplicate artists collapse", func(t *testing.T) {
		result, err := NewPlaylistEngine(newCatalog()).Build(ctx, request("Radiohead", "radiohead"), nil)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if len(result.Artists) != 1 {
			t.Errorf("expected one seed artist, got %v", result.Artists)
		}
		if len(result.Tracks) != 6 {
			t.Errorf("expected the single artist to fill the playlist, got %d", len(result.Tracks))
		}
	})

	t.Run("catalog failure", func(t *testing.T) {
		catalog := newCatalog()
		catalog.AlbumErr = shared.ErrAPIRequest

		_, err := NewPlaylistEngine(catalog).Build(ctx, request("Radiohead"), nil)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("seed reproduces shuffle", func(t *testing.T) {
		req := request("Radiohead", "Portishead")
		req.Options.Shuffle = true
		req.Seed = 1234

		first, err := NewPlaylistEngine(newCatalog()).Build(ctx, req, nil)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		second, _ := NewPlaylistEngine(newCatalog()).Build(ctx, req, nil)

		if !slices.Equal(first.Tracks, second.Tracks) {
			t.Error("expected the same seed to reproduce the playlist")
		}
		if first.Seed != 1234 {
			t.Errorf("expected seed to be reported, got %d", first.Seed)
		}
	})

	t.Run("random seed is reported", func(t *testing.T) {
		req := request("Radiohead")
		req.Seed = 0

		result, err := NewPlaylistEngine(newCatalog()).Build(ctx, req, nil)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if result.Seed == 0 {
			t.Error("expected a drawn seed")
		}
	})
}

func TestPlaylistEngine_Build_Cache(t *testing.T) {
	ctx := context.Background()

	t.Run("second build skips search", func(t *testing.T) {
		catalog := newCatalog()
		cache := newMemoryCache()
		engine := NewPlaylistEngine(catalog, WithArtistCache(cache))

		if _, err := engine.Build(ctx, request("Radiohead"), nil); err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if cache.stored != 1 {
			t.Fatalf("expected 1 stored artist, got %d", cache.stored)
		}

		result, err := engine.Build(ctx, request("  RADIOHEAD "), nil)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		if len(catalog.Searches) != 1 {
			t.Errorf("expected cached resolution, got searches %v", catalog.Searches)
		}
		if result.Cached != 1 {
			t.Errorf("expected 1 cached resolution, got %d", result.Cached)
		}
	})

	t.Run("cache failures do not fail builds", func(t *testing.T) {
		cache := newMemoryCache()
		cache.lookupErr = errors.New("database is locked")
		cache.storeErr = errors.New("database is locked")

		result, err := NewPlaylistEngine(newCatalog(), WithArtistCache(cache)).Build(ctx, request("Radiohead"), nil)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if len(result.Tracks) == 0 {
			t.Error("expected tracks despite cache failures")
		}
	})
}

func TestPlaylistEngine_Export(t *testing.T) {
	engine := NewPlaylistEngine(newCatalog())
	result, err := engine.Build(context.Background(), request("Radiohead"), nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	t.Run("writes csv", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "playlist.csv")
		progressCh := make(chan ProgressUpdate, 10)

		if err := engine.Export(result, path, "csv", progressCh); err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		close(progressCh)

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if !strings.HasPrefix(string(data), "track,artist,spotify_url\r\n") {
			t.Errorf("unexpected csv header: %q", string(data))
		}

		var phases []Phase
		for update := range progressCh {
			phases = append(phases, update.Phase)
		}
		if len(phases) != 2 || phases[0] != ExportPlaylist {
			t.Errorf("expected two export updates, got %v", phases)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		err := engine.Export(result, filepath.Join(t.TempDir(), "out.xml"), "xml", nil)
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("nil result", func(t *testing.T) {
		if err := engine.Export(nil, "out.csv", "csv", nil); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestProgressUpdates(t *testing.T) {
	t.Run("phases in order", func(t *testing.T) {
		progressCh := make(chan ProgressUpdate, 100)
		_, err := NewPlaylistEngine(newCatalog()).Build(context.Background(), request("Radiohead", "Nobody"), progressCh)
		close(progressCh)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		var phases []Phase
		var messages []string
		for update := range progressCh {
			phases = append(phases, update.Phase)
			messages = append(messages, update.Message)
		}

		if !slices.IsSorted(phases) {
			t.Errorf("expected phases to advance monotonically, got %v", phases)
		}
		if phases[len(phases)-1] != AssemblePlaylist {
			t.Errorf("expected final update to be %s, got %s", AssemblePlaylist, phases[len(phases)-1])
		}
		if !slices.ContainsFunc(messages, func(m string) bool { return strings.Contains(m, "Nobody: not found") }) {
			t.Errorf("expected not-found message, got %v", messages)
		}
	})

	t.Run("non-blocking", func(t *testing.T) {
		engine := NewPlaylistEngine(newCatalog())

		// Unbuffered and never read
		progressCh := make(chan ProgressUpdate)

		done := make(chan error)
		go func() {
			_, err := engine.Build(context.Background(), request("Radiohead"), progressCh)
			done <- err
		}()

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Build() error = %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("Build() should not block on progress sends")
		}
	})

	t.Run("phase names", func(t *testing.T) {
		tc := map[Phase]string{
			ResolveArtists:   "resolve_artists",
			BuildPools:       "build_pools",
			AssemblePlaylist: "assemble_playlist",
			ExportPlaylist:   "export_playlist",
			Phase(99):        "",
		}
		for phase, want := range tc {
			if got := phase.String(); got != want {
				t.Errorf("Phase(%d).String() = %q, want %q", phase, got, want)
			}
		}
	})
}

func TestSplitNames(t *testing.T) {
	got := SplitNames(" Radiohead, ,Portishead ,,Massive Attack ")
	want := []string{"Radiohead", "Portishead", "Massive Attack"}
	if !slices.Equal(got, want) {
		t.Errorf("SplitNames() = %v, want %v", got, want)
	}
}
