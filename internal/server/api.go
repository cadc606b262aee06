package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/formatter"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/models"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/services"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/shared"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/tasks"
	"github.com/charmbracelet/log"
)

const (
	maxBodyBytes      = 1 << 16
	artistSearchLimit = 10
)

var contentTypes = map[string]string{
	"json":     "application/json",
	"csv":      "text/csv; charset=utf-8",
	"yaml":     "application/yaml",
	"markdown": "text/markdown; charset=utf-8",
	"text":     "text/plain; charset=utf-8",
}

// API serves playlist builds and artist lookups.
type API struct {
	Engine   tasks.Generator
	Catalog  services.Catalog
	Defaults tasks.BuildRequest // Settings used for fields a request leaves out
	Logger   *log.Logger

	routes []string
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string   `json:"status"`
	Catalog string   `json:"catalog"`
	Routes  []string `json:"routes"`
}

// BuildPayload is the body of POST /playlists. Nil fields fall back to [API.Defaults].
type BuildPayload struct {
	Artists         []string `json:"artists"`
	Size            *int     `json:"size,omitempty"`
	AlbumsPerArtist *int     `json:"albums_per_artist,omitempty"`
	TracksPerAlbum  *int     `json:"tracks_per_album,omitempty"`
	Shuffle         *bool    `json:"shuffle,omitempty"`
	SoloOnly        *bool    `json:"solo_only,omitempty"`
	Seed            *uint64  `json:"seed,omitempty"`
	Market          string   `json:"market,omitempty"`
}

// ArtistSearchResponse is the body of GET /artists.
type ArtistSearchResponse struct {
	Query      string          `json:"query"`
	Candidates []models.Artist `json:"candidates"`
	Pick       *models.Artist  `json:"pick"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Register adds the API routes to r.
func (a *API) Register(r Router) {
	r.Handle(http.MethodGet, "/healthz", http.HandlerFunc(a.health))
	r.Handle(http.MethodGet, "/artists", http.HandlerFunc(a.searchArtists))
	r.Handle(http.MethodPost, "/playlists", http.HandlerFunc(a.buildPlaylist))
}

// Handler returns a router with logging and panic recovery serving every API route.
func (a *API) Handler() http.Handler {
	r := NewBasicRouter()
	r.Use(Recoverer(a.logger()), RequestLogger(a.logger()))
	a.Register(r)
	a.routes = r.Routes()
	return r
}

func (a *API) logger() *log.Logger {
	if a.Logger == nil {
		a.Logger = log.New(io.Discard)
	}
	return a.Logger
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	catalog := ""
	if a.Catalog != nil {
		catalog = a.Catalog.Name()
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Catalog: catalog, Routes: a.routes})
}

func (a *API) searchArtists(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("q"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	if a.Catalog == nil {
		writeError(w, http.StatusServiceUnavailable, "catalog not configured")
		return
	}

	candidates, err := a.Catalog.SearchArtists(r.Context(), name, artistSearchLimit)
	if err != nil {
		a.fail(w, fmt.Errorf("failed to search artists: %w", err))
		return
	}
	if candidates == nil {
		candidates = []models.Artist{}
	}

	writeJSON(w, http.StatusOK, ArtistSearchResponse{
		Query:      name,
		Candidates: candidates,
		Pick:       tasks.PickArtist(name, candidates),
	})
}

func (a *API) buildPlaylist(w http.ResponseWriter, r *http.Request) {
	format := "json"
	if f := r.URL.Query().Get("format"); f != "" {
		normalized, err := formatter.Normalize(f)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		format = normalized
	}

	var payload BuildPayload
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	req, err := a.request(payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := a.Engine.Build(r.Context(), req, nil)
	if err != nil {
		a.fail(w, err)
		return
	}

	if format == "json" {
		writeJSON(w, http.StatusOK, result)
		return
	}

	body, err := formatter.Render(result.Tracks, format)
	if err != nil {
		a.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Playlist-Seed", fmt.Sprint(result.Seed))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// request merges payload over the API defaults.
func (a *API) request(p BuildPayload) (tasks.BuildRequest, error) {
	req := a.Defaults
	req.Names = tasks.SplitNames(strings.Join(p.Artists, ","))
	if len(req.Names) == 0 {
		return req, fmt.Errorf("%w: artists must name at least one artist", shared.ErrInvalidInput)
	}

	if p.Size != nil {
		req.TargetSize = *p.Size
	}
	if p.AlbumsPerArtist != nil {
		req.Options.AlbumsPerArtist = *p.AlbumsPerArtist
	}
	if p.TracksPerAlbum != nil {
		req.Options.TracksPerAlbum = *p.TracksPerAlbum
	}
	if p.Shuffle != nil {
		req.Options.Shuffle = *p.Shuffle
	}
	if p.SoloOnly != nil {
		req.Options.SoloOnly = *p.SoloOnly
	}
	if p.Seed != nil {
		req.Seed = *p.Seed
	}
	if p.Market != "" {
		req.Options.Market = strings.ToUpper(p.Market)
	}

	switch {
	case req.TargetSize <= 0:
		return req, fmt.Errorf("%w: size must be positive", shared.ErrInvalidInput)
	case req.Options.AlbumsPerArtist <= 0:
		return req, fmt.Errorf("%w: albums_per_artist must be positive", shared.ErrInvalidInput)
	case req.Options.TracksPerAlbum <= 0:
		return req, fmt.Errorf("%w: tracks_per_album must be positive", shared.ErrInvalidInput)
	}
	return req, nil
}

// fail maps an engine or catalog error to a status code and writes it.
func (a *API) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger().Error("request failed", "error", err)
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrInvalidFlag):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNoArtistsResolved):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrAuthFailed),
		errors.Is(err, shared.ErrAPIRequest), errors.Is(err, shared.ErrNotFound),
		errors.Is(err, shared.ErrServiceUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := shared.MarshalJSON(v, false)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypes["json"])
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
