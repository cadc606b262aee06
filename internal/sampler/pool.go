package sampler

import (
	"context"
	"math/rand/v2"
	"slices"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/models"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/services"
)

// Options controls how artist pools are sampled.
type Options struct {
	AlbumsPerArtist int    // releases enumerated per artist
	TracksPerAlbum  int    // tracks any single release may contribute
	Shuffle         bool   // randomize per album, per pool and the final multi-artist playlist
	SoloOnly        bool   // keep only tracks credited to the artist alone
	Market          string // catalog region; [DefaultMarket] when empty
}

// DefaultOptions mirrors the generator section of the default configuration.
func DefaultOptions() Options {
	return Options{
		AlbumsPerArtist: 20,
		TracksPerAlbum:  5,
		Shuffle:         true,
		SoloOnly:        true,
		Market:          DefaultMarket,
	}
}

// Pool is the ordered candidate sequence for one seed artist.
//
// The sequence itself never changes; Pop advances a cursor so each candidate is consumed once, front to back.
type Pool struct {
	ArtistID string
	Albums   int // releases the pool was sampled from

	tracks []models.Track
	next   int
}

// NewPool wraps tracks as a pool for artistID.
func NewPool(artistID string, tracks []models.Track) *Pool {
	return &Pool{ArtistID: artistID, tracks: tracks}
}

// Pop returns the next unconsumed candidate.
func (p *Pool) Pop() (models.Track, bool) {
	if p == nil || p.next >= len(p.tracks) {
		return models.Track{}, false
	}
	t := p.tracks[p.next]
	p.next++
	return t, true
}

// Len is the number of candidates the pool was built with.
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.tracks)
}

// Remaining is the number of candidates not yet popped.
func (p *Pool) Remaining() int {
	if p == nil {
		return 0
	}
	return len(p.tracks) - p.next
}

// Tracks returns a copy of every candidate in pool order, consumed or not.
func (p *Pool) Tracks() []models.Track {
	if p == nil {
		return nil
	}
	return slices.Clone(p.tracks)
}

// PoolBuilder samples artist discographies into pools.
type PoolBuilder struct {
	Catalog services.Catalog
	Rand    *rand.Rand // nil uses the math/rand/v2 global source
	Options Options
}

// NewPoolBuilder creates a builder whose shuffles are reproducible for a given seed.
func NewPoolBuilder(catalog services.Catalog, opts Options, seed uint64) *PoolBuilder {
	return &PoolBuilder{
		Catalog: catalog,
		Rand:    rand.New(rand.NewPCG(seed, seed)),
		Options: opts,
	}
}

// Build enumerates up to AlbumsPerArtist releases for artistID and takes at most TracksPerAlbum
// tracks from each, credited to that artist (alone when SoloOnly is set).
//
// With Shuffle on, each album is shuffled before it is truncated and the concatenated pool is shuffled again.
// Build does not deduplicate or bound the pool's total length.
func (b *PoolBuilder) Build(ctx context.Context, artistID string) (*Pool, error) {
	albumIDs, err := EnumerateAlbums(ctx, b.Catalog, artistID, b.Options.AlbumsPerArtist, b.Options.Market)
	if err != nil {
		return nil, err
	}

	opts := HarvestOpts{AllowedArtistIDs: AllowArtists(artistID), SoloOnly: b.Options.SoloOnly}
	perAlbum := max(b.Options.TracksPerAlbum, 0)

	var tracks []models.Track
	for _, albumID := range albumIDs {
		harvested, err := HarvestTracks(ctx, b.Catalog, albumID, opts)
		if err != nil {
			return nil, err
		}

		if b.Options.Shuffle {
			b.shuffle(harvested)
		}
		tracks = append(tracks, harvested[:min(perAlbum, len(harvested))]...)
	}

	if b.Options.Shuffle {
		b.shuffle(tracks)
	}

	pool := NewPool(artistID, tracks)
	pool.Albums = len(albumIDs)
	return pool, nil
}

func (b *PoolBuilder) shuffle(tracks []models.Track) {
	swap := func(i, j int) { tracks[i], tracks[j] = tracks[j], tracks[i] }
	if b.Rand == nil {
		rand.Shuffle(len(tracks), swap)
		return
	}
	b.Rand.Shuffle(len(tracks), swap)
}
