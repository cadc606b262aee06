// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/models"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/services"
)

// StubCatalog is a deterministic in-memory [services.Catalog].
//
// Album and track listings are split into pages using the requested limit, with a next cursor
// that encodes the following offset, so callers exercise the same pagination path as the real client.
type StubCatalog struct {
	Artists map[string][]models.Artist      // search results keyed by query
	Albums  map[string][]services.AlbumItem // releases keyed by artist id
	Tracks  map[string][]services.TrackItem // track listings keyed by album id

	SearchErr error
	AlbumErr  error
	TrackErr  error

	Searches      []string              // names passed to SearchArtists
	AlbumQueries  []services.AlbumQuery // queries seen by ArtistAlbums and NextAlbums
	TrackRequests []string              // album ids requested, one entry per page
}

// NewStubCatalog creates an empty stub.
func NewStubCatalog() *StubCatalog {
	return &StubCatalog{
		Artists: map[string][]models.Artist{},
		Albums:  map[string][]services.AlbumItem{},
		Tracks:  map[string][]services.TrackItem{},
	}
}

// AddArtist registers a search result for query.
func (s *StubCatalog) AddArtist(query string, artists ...models.Artist) *StubCatalog {
	s.Artists[query] = append(s.Artists[query], artists...)
	return s
}

// AddAlbum registers an album credited to artistIDs and listed under owner.
func (s *StubCatalog) AddAlbum(owner, albumID, albumType string, artistIDs ...string) *StubCatalog {
	refs := make([]services.ArtistRef, 0, len(artistIDs))
	for _, id := range artistIDs {
		refs = append(refs, services.ArtistRef{ID: id})
	}
	s.Albums[owner] = append(s.Albums[owner], services.AlbumItem{
		ID:        albumID,
		Name:      "Album " + albumID,
		AlbumType: albumType,
		Artists:   refs,
	})
	return s
}

// AddTrack registers a track on albumID credited to artists, each given as "id:name".
func (s *StubCatalog) AddTrack(albumID, trackID, name string, artists ...string) *StubCatalog {
	refs := make([]services.ArtistRef, 0, len(artists))
	for _, a := range artists {
		id, display, _ := strings.Cut(a, ":")
		refs = append(refs, services.ArtistRef{ID: id, Name: display})
	}

	urls := map[string]string{}
	if trackID != "" {
		urls["spotify"] = "https://open.spotify.com/track/" + trackID
	}

	s.Tracks[albumID] = append(s.Tracks[albumID], services.TrackItem{
		ID:           trackID,
		Name:         name,
		Artists:      refs,
		ExternalURLs: urls,
	})
	return s
}

// AddSoloTracks registers n tracks on albumID named "{prefix} n" credited only to artistID.
func (s *StubCatalog) AddSoloTracks(albumID, artistID, artistName, prefix string, n int) *StubCatalog {
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("%s-%s-%d", albumID, prefix, i)
		s.AddTrack(albumID, id, fmt.Sprintf("%s %d", prefix, i), artistID+":"+artistName)
	}
	return s
}

func (s *StubCatalog) Name() string { return "stub" }

func (s *StubCatalog) SearchArtists(ctx context.Context, name string, limit int) ([]models.Artist, error) {
	s.Searches = append(s.Searches, name)
	if s.SearchErr != nil {
		return nil, s.SearchErr
	}

	results := s.Artists[name]
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return slices.Clone(results), nil
}

func (s *StubCatalog) ArtistAlbums(ctx context.Context, artistID string, query services.AlbumQuery) (*services.AlbumPage, error) {
	s.AlbumQueries = append(s.AlbumQueries, query)
	if s.AlbumErr != nil {
		return nil, s.AlbumErr
	}

	var matching []services.AlbumItem
	for _, album := range s.Albums[artistID] {
		if len(query.Types) == 0 || slices.Contains(query.Types, album.AlbumType) {
			matching = append(matching, album)
		}
	}

	items, next := paginate(matching, query.Limit, query.Offset)
	page := &services.AlbumPage{Items: items, Total: len(matching), Limit: query.Limit, Offset: query.Offset}
	if next >= 0 {
		cursor := stubCursor("albums", artistID, next, query.Limit, query.Types, query.Market)
		page.Next = &cursor
	}
	return page, nil
}

func (s *StubCatalog) NextAlbums(ctx context.Context, page *services.AlbumPage) (*services.AlbumPage, error) {
	if !page.HasNext() {
		return nil, nil
	}

	owner, query, err := parseStubCursor(*page.Next)
	if err != nil {
		return nil, err
	}
	return s.ArtistAlbums(ctx, owner, query)
}

func (s *StubCatalog) AlbumTracks(ctx context.Context, albumID string, limit, offset int) (*services.TrackPage, error) {
	s.TrackRequests = append(s.TrackRequests, albumID)
	if s.TrackErr != nil {
		return nil, s.TrackErr
	}

	all := s.Tracks[albumID]
	items, next := paginate(all, limit, offset)
	page := &services.TrackPage{Items: items, Total: len(all), Limit: limit, Offset: offset}
	if next >= 0 {
		cursor := stubCursor("tracks", albumID, next, limit, nil, "")
		page.Next = &cursor
	}
	return page, nil
}

func (s *StubCatalog) NextTracks(ctx context.Context, page *services.TrackPage) (*services.TrackPage, error) {
	if !page.HasNext() {
		return nil, nil
	}

	albumID, query, err := parseStubCursor(*page.Next)
	if err != nil {
		return nil, err
	}
	return s.AlbumTracks(ctx, albumID, query.Limit, query.Offset)
}

// AlbumLimits returns the page sizes requested from ArtistAlbums in order.
func (s *StubCatalog) AlbumLimits() []int {
	limits := make([]int, 0, len(s.AlbumQueries))
	for _, q := range s.AlbumQueries {
		limits = append(limits, q.Limit)
	}
	return limits
}

// paginate returns one page of items and the next offset, or -1 when the page is the last.
func paginate[T any](items []T, limit, offset int) ([]T, int) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}, -1
	}

	end := min(offset+limit, len(items))
	page := slices.Clone(items[offset:end])
	if end >= len(items) {
		return page, -1
	}
	return page, end
}

func stubCursor(kind, owner string, offset, limit int, types []string, market string) string {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	if len(types) > 0 {
		q.Set("include_groups", strings.Join(types, ","))
	}
	if market != "" {
		q.Set("market", market)
	}
	return fmt.Sprintf("stub://%s/%s?%s", kind, url.PathEscape(owner), q.Encode())
}

func parseStubCursor(cursor string) (string, services.AlbumQuery, error) {
	u, err := url.Parse(cursor)
	if err != nil {
		return "", services.AlbumQuery{}, fmt.Errorf("bad stub cursor %q: %w", cursor, err)
	}

	owner, err := url.PathUnescape(strings.TrimPrefix(u.Path, "/"))
	if err != nil {
		return "", services.AlbumQuery{}, err
	}

	q := u.Query()
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	query := services.AlbumQuery{Market: q.Get("market"), Limit: limit, Offset: offset}
	if groups := q.Get("include_groups"); groups != "" {
		query.Types = strings.Split(groups, ",")
	}
	return owner, query, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

// TrackIDs returns the ids of tracks in order.
func TrackIDs(tracks []models.Track) []string {
	ids := make([]string, 0, len(tracks))
	for _, t := range tracks {
		ids = append(ids, t.ID)
	}
	return ids
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
