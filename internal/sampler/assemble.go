package sampler

import (
	"context"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/models"
)

// Pools maps a seed artist id to its candidate pool.
type Pools map[string]*Pool

// PerArtistCap is the most tracks one of n seed artists may contribute to a playlist of target tracks.
func PerArtistCap(target, n int) int {
	if n <= 0 {
		return 0
	}
	return max(1, (target+n-1)/n)
}

// Assembler merges per-artist pools into one bounded, deduplicated playlist.
type Assembler struct {
	Builder *PoolBuilder

	// OnPool, when set, is called after each seed artist's pool is built.
	OnPool func(step, total int, pool *Pool)
}

// NewAssembler creates an Assembler sampling through builder.
func NewAssembler(builder *PoolBuilder) *Assembler {
	return &Assembler{Builder: builder}
}

// Assemble builds a pool per seed artist and selects at most target tracks from them.
//
// An empty seed list or a non-positive target returns an empty playlist without touching the catalog.
func (a *Assembler) Assemble(ctx context.Context, seedIDs []string, target int) ([]models.Track, error) {
	if len(seedIDs) == 0 || target <= 0 {
		return []models.Track{}, nil
	}

	pools, err := a.BuildPools(ctx, seedIDs)
	if err != nil {
		return nil, err
	}
	return a.Select(pools, seedIDs, target), nil
}

// BuildPools samples one pool per distinct seed artist, in seed order.
func (a *Assembler) BuildPools(ctx context.Context, seedIDs []string) (Pools, error) {
	pools := make(Pools, len(seedIDs))
	for i, id := range seedIDs {
		if _, ok := pools[id]; ok {
			continue
		}

		pool, err := a.Builder.Build(ctx, id)
		if err != nil {
			return nil, err
		}
		pools[id] = pool

		if a.OnPool != nil {
			a.OnPool(i+1, len(seedIDs), pool)
		}
	}
	return pools, nil
}

// Select consumes pools into a playlist of at most target tracks.
//
// One seed artist: the pool is read in order, dropping duplicates. Several seed artists: artists take
// turns in seed order, each turn accepting the first non-duplicate candidate from that artist's pool,
// until every artist is capped or exhausted. With Shuffle on, the multi-artist result is shuffled once more.
func (a *Assembler) Select(pools Pools, seedIDs []string, target int) []models.Track {
	playlist := []models.Track{}
	if len(seedIDs) == 0 || target <= 0 {
		return playlist
	}

	seen := newDedup()

	if len(seedIDs) == 1 {
		pool := pools[seedIDs[0]]
		for len(playlist) < target {
			t, ok := pool.Pop()
			if !ok {
				break
			}
			if seen.accept(t) {
				playlist = append(playlist, t)
			}
		}
		return playlist
	}

	limit := PerArtistCap(target, len(seedIDs))
	contributed := make(map[string]int, len(seedIDs))

	for progress := true; progress && len(playlist) < target; {
		progress = false
		for _, id := range seedIDs {
			if len(playlist) >= target {
				break
			}
			if contributed[id] >= limit {
				continue
			}

			pool := pools[id]
			for {
				t, ok := pool.Pop()
				if !ok {
					break
				}
				if !seen.accept(t) {
					continue
				}

				playlist = append(playlist, t)
				contributed[id]++
				progress = true
				break
			}
		}
	}

	if a.Builder != nil && a.Builder.Options.Shuffle {
		a.Builder.shuffle(playlist)
	}

	return playlist[:min(len(playlist), target)]
}

// dedup tracks accepted ids and name keys.
type dedup struct {
	ids   map[string]struct{}
	names map[models.NameKey]struct{}
}

func newDedup() *dedup {
	return &dedup{ids: map[string]struct{}{}, names: map[models.NameKey]struct{}{}}
}

// accept records t and reports whether it was new by both id and name key.
func (d *dedup) accept(t models.Track) bool {
	if t.ID == "" {
		return false
	}

	key := t.NameKey()
	if _, ok := d.ids[t.ID]; ok {
		return false
	}
	if _, ok := d.names[key]; ok {
		return false
	}

	d.ids[t.ID] = struct{}{}
	d.names[key] = struct{}{}
	return true
}
