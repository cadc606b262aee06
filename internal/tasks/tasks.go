// package tasks implements playlist generation on top of a music catalog.
//
// The core abstraction is Generator, which resolves artist names, samples their discographies and exports the result.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/formatter"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/models"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/sampler"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/services"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/shared"
	"github.com/charmbracelet/log"
)

const (
	// MaxArtists is the default number of seed artists a build samples.
	MaxArtists = 5
	// DefaultTargetSize is the default playlist length.
	DefaultTargetSize = 40

	artistSearchLimit = 10
)

// BuildRequest describes one playlist build.
type BuildRequest struct {
	Names      []string        // Artist names as typed by the user
	TargetSize int             // Upper bound on playlist length
	MaxArtists int             // Names beyond this many are dropped; [MaxArtists] when zero
	Seed       uint64          // Shuffle seed; a random seed is drawn when zero
	Options    sampler.Options // Pool sampling parameters
}

// BuildResult contains the assembled playlist and what happened to each requested name.
type BuildResult struct {
	models.Playlist `yaml:",inline"`

	NotFound  []string `json:"not_found,omitempty" yaml:"not_found,omitempty"` // Names with no catalog match
	Truncated []string `json:"truncated,omitempty" yaml:"truncated,omitempty"` // Names beyond the artist limit
	Cached    int      `json:"cached" yaml:"cached"`                           // Names resolved from the artist cache
	Seed      uint64   `json:"seed" yaml:"seed"`                               // Seed that reproduces the shuffle
}

// Generator defines the playlist generation operations.
type Generator interface {
	// Resolve maps an artist name to a catalog artist, returning nil when nothing matches.
	Resolve(ctx context.Context, name string) (*models.Artist, error)

	// Build resolves req.Names and assembles a playlist from their discographies.
	Build(ctx context.Context, req BuildRequest, progress chan<- ProgressUpdate) (*BuildResult, error)

	// Export writes result's tracks to path in the named format.
	Export(result *BuildResult, path, format string, progress chan<- ProgressUpdate) error
}

// ArtistCacher defines the interface for persisting artist resolutions between runs.
// Lookup returns [shared.ErrCacheMiss] when query has not been resolved before.
type ArtistCacher interface {
	Lookup(ctx context.Context, query string) (*models.Artist, error)
	Store(ctx context.Context, query string, artist models.Artist) error
}

// PlaylistEngine implements Generator.
// Contains dependencies on the catalog and an optional artist cache.
type PlaylistEngine struct {
	catalog services.Catalog
	cache   ArtistCacher
	logger  *log.Logger
}

// EngineOption configures a [PlaylistEngine].
type EngineOption func(*PlaylistEngine)

// WithArtistCache enables resolution caching.
func WithArtistCache(c ArtistCacher) EngineOption {
	return func(e *PlaylistEngine) { e.cache = c }
}

// WithEngineLogger sets the logger; the engine is silent without one.
func WithEngineLogger(l *log.Logger) EngineOption {
	return func(e *PlaylistEngine) { e.logger = l }
}

// NewPlaylistEngine creates a new PlaylistEngine reading from catalog.
func NewPlaylistEngine(catalog services.Catalog, opts ...EngineOption) *PlaylistEngine {
	e := &PlaylistEngine{catalog: catalog}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// PickArtist chooses the candidate for name: the first whose name matches case-insensitively,
// otherwise the most popular (first wins ties). Returns nil for no candidates.
func PickArtist(name string, candidates []models.Artist) *models.Artist {
	if len(candidates) == 0 {
		return nil
	}

	for _, a := range candidates {
		if strings.EqualFold(a.Name, name) {
			return &a
		}
	}

	best := candidates[0]
	for _, a := range candidates[1:] {
		if a.Popularity > best.Popularity {
			best = a
		}
	}
	return &best
}

// ResolveArtist searches catalog for name and picks the best candidate with [PickArtist].
func ResolveArtist(ctx context.Context, catalog services.Catalog, name string) (*models.Artist, error) {
	candidates, err := catalog.SearchArtists(ctx, name, artistSearchLimit)
	if err != nil {
		return nil, err
	}
	return PickArtist(name, candidates), nil
}

// Resolve maps name to a catalog artist, consulting the cache first when one is configured.
func (e *PlaylistEngine) Resolve(ctx context.Context, name string) (*models.Artist, error) {
	artist, _, err := e.resolve(ctx, name)
	return artist, err
}

func (e *PlaylistEngine) resolve(ctx context.Context, name string) (*models.Artist, bool, error) {
	if e.catalog == nil {
		return nil, false, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	query := shared.NormalizeQuery(name)
	if e.cache != nil {
		cached, err := e.cache.Lookup(ctx, query)
		switch {
		case err == nil && cached != nil:
			e.logger.Debug("artist cache hit", "query", query, "artist", cached.ID)
			return cached, true, nil
		case err != nil && !errors.Is(err, shared.ErrCacheMiss):
			e.logger.Warn("artist cache lookup failed", "query", query, "error", err)
		}
	}

	artist, err := ResolveArtist(ctx, e.catalog, name)
	if err != nil {
		return nil, false, err
	}

	if artist != nil && e.cache != nil {
		if err := e.cache.Store(ctx, query, *artist); err != nil {
			e.logger.Warn("failed to cache artist", "query", query, "error", err)
		}
	}
	return artist, false, nil
}

// Build resolves req.Names, samples each resolved artist's discography and assembles the playlist.
//
// Unresolved names are reported in [BuildResult.NotFound] and do not stop the build unless none resolve,
// in which case the error wraps [shared.ErrNoArtistsResolved]. Catalog failures are returned as is.
func (e *PlaylistEngine) Build(ctx context.Context, req BuildRequest, progress chan<- ProgressUpdate) (*BuildResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	names := cleanNames(req.Names)
	limit := req.MaxArtists
	if limit <= 0 {
		limit = MaxArtists
	}

	result := &BuildResult{
		Playlist: models.Playlist{
			ID:      shared.GenerateID(),
			Artists: []models.Artist{},
			Tracks:  []models.Track{},
		},
		Seed: req.Seed,
	}
	if result.Seed == 0 {
		result.Seed = rand.Uint64()
	}

	if len(names) > limit {
		result.Truncated = names[limit:]
		names = names[:limit]
		e.logger.Info("too many artists", "kept", len(names), "dropped", strings.Join(result.Truncated, ", "))
		e.sendProgress(progress, truncatedUpdate(names, result.Truncated))
	}

	seeds := make([]string, 0, len(names))
	byID := make(map[string]models.Artist, len(names))
	for i, name := range names {
		e.sendProgress(progress, resolvingUpdate(i+1, len(names), name))

		artist, cached, err := e.resolve(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %q: %w", name, err)
		}
		e.sendProgress(progress, resolvedUpdate(i+1, len(names), name, artist, cached))

		if artist == nil {
			result.NotFound = append(result.NotFound, name)
			continue
		}
		if cached {
			result.Cached++
		}
		if _, dup := byID[artist.ID]; dup {
			e.logger.Debug("artist already seeded", "name", name, "artist", artist.ID)
			continue
		}

		byID[artist.ID] = *artist
		seeds = append(seeds, artist.ID)
		result.Artists = append(result.Artists, *artist)
	}

	if len(seeds) == 0 {
		if len(result.NotFound) == 0 {
			return nil, fmt.Errorf("%w: no artist names given", shared.ErrNoArtistsResolved)
		}
		return nil, fmt.Errorf("%w: not found: %s", shared.ErrNoArtistsResolved, strings.Join(result.NotFound, ", "))
	}

	builder := sampler.NewPoolBuilder(e.catalog, req.Options, result.Seed)
	assembler := sampler.NewAssembler(builder)
	assembler.OnPool = func(step, total int, pool *sampler.Pool) {
		artist := byID[pool.ArtistID]
		e.logger.Debug("pool built", "artist", artist.Name, "albums", pool.Albums, "pool", pool.Len())
		e.sendProgress(progress, poolBuiltUpdate(step, total, artist, pool))
	}

	e.sendProgress(progress, samplingUpdate(len(seeds)))
	tracks, err := assembler.Assemble(ctx, seeds, req.TargetSize)
	if err != nil {
		return nil, fmt.Errorf("failed to sample discographies: %w", err)
	}
	result.Tracks = tracks

	e.logger.Info("playlist built",
		"id", result.ID,
		"tracks", len(result.Tracks),
		"target", req.TargetSize,
		"artists", len(result.Artists),
		"not_found", len(result.NotFound),
		"seed", result.Seed,
	)
	e.sendProgress(progress, assembledUpdate(result, req.TargetSize))

	return result, nil
}

// Export writes result's tracks to path using the named format (see [formatter.Formats]).
func (e *PlaylistEngine) Export(result *BuildResult, path, format string, progress chan<- ProgressUpdate) error {
	if result == nil {
		return fmt.Errorf("%w: nothing to export", shared.ErrInvalidInput)
	}

	e.sendProgress(progress, exportingUpdate(path, format, len(result.Tracks)))
	if err := formatter.WriteExport(result.Tracks, path, format); err != nil {
		return err
	}

	e.logger.Info("playlist exported", "path", path, "format", format, "tracks", len(result.Tracks))
	e.sendProgress(progress, exportedUpdate(path))
	return nil
}

// cleanNames trims names and drops empty ones, keeping order.
func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// SplitNames parses a comma-separated artist list as typed at a prompt.
func SplitNames(s string) []string {
	return cleanNames(strings.Split(s, ","))
}
