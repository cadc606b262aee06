package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/models"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/sampler"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/shared"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/tasks"
	tu "github.com/Danpaek111/spotipy-playlist-generator/internal/testing"
)

func newTestAPI(t *testing.T) (*API, *tu.StubCatalog) {
	t.Helper()
	catalog := tu.NewStubCatalog().
		AddArtist("Radiohead", models.Artist{ID: "A1", Name: "Radiohead", Popularity: 80}).
		AddArtist("Air", models.Artist{ID: "X1", Name: "Airiel", Popularity: 90}, models.Artist{ID: "X2", Name: "AIR", Popularity: 40}).
		AddAlbum("A1", "R1", "album", "A1").
		AddSoloTracks("R1", "A1", "Radiohead", "Song", 3).
		AddAlbum("A1", "R2", "single", "A1").
		AddSoloTracks("R2", "A1", "Radiohead", "Single", 3)

	return &API{
		Engine:  tasks.NewPlaylistEngine(catalog),
		Catalog: catalog,
		Defaults: tasks.BuildRequest{
			TargetSize: 4,
			Options:    sampler.DefaultOptions(),
		},
		Logger: shared.NewLogger(io.Discard),
	}, catalog
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter(t *testing.T) {
	t.Run("applies middleware in registration order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mark("first"), mark("second"))
		r.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			order = append(order, "handler")
		}))

		do(t, r, http.MethodGet, "/ping", "")
		if got := strings.Join(order, ","); got != "first,second,handler" {
			t.Errorf("expected first,second,handler, got %s", got)
		}
	})

	t.Run("rejects other methods", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle(http.MethodPost, "/only-post", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

		rec := do(t, r, http.MethodGet, "/only-post", "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("recoverer returns 500", func(t *testing.T) {
		r := NewBasicRouter()
		r.Use(Recoverer(shared.NewLogger(io.Discard)))
		r.Handle(http.MethodGet, "/boom", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			panic("boom")
		}))

		rec := do(t, r, http.MethodGet, "/boom", "")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})
}

func TestAPI(t *testing.T) {
	t.Run("health", func(t *testing.T) {
		api, _ := newTestAPI(t)
		rec := do(t, api.Handler(), http.MethodGet, "/healthz", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp HealthResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("expected JSON, got %v", err)
		}
		if resp.Catalog != "stub" {
			t.Errorf("expected stub catalog, got %q", resp.Catalog)
		}
		want := []string{"GET /healthz", "GET /artists", "POST /playlists"}
		if strings.Join(resp.Routes, ",") != strings.Join(want, ",") {
			t.Errorf("expected routes %v, got %v", want, resp.Routes)
		}
	})

	t.Run("artist search picks the exact match", func(t *testing.T) {
		api, _ := newTestAPI(t)
		rec := do(t, api.Handler(), http.MethodGet, "/artists?q=Air", "")

		var resp ArtistSearchResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("expected JSON, got %v", err)
		}
		if len(resp.Candidates) != 2 || resp.Pick == nil || resp.Pick.ID != "X2" {
			t.Errorf("unexpected response %+v", resp)
		}
	})

	t.Run("artist search requires q", func(t *testing.T) {
		api, _ := newTestAPI(t)
		rec := do(t, api.Handler(), http.MethodGet, "/artists", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("build returns the result as JSON", func(t *testing.T) {
		api, _ := newTestAPI(t)
		rec := do(t, api.Handler(), http.MethodPost, "/playlists", `{"artists":["Radiohead","Nobody"],"size":5,"seed":3}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var result tasks.BuildResult
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatalf("expected JSON, got %v", err)
		}
		if len(result.Tracks) != 5 {
			t.Errorf("expected 5 tracks, got %d", len(result.Tracks))
		}
		if len(result.NotFound) != 1 || result.NotFound[0] != "Nobody" {
			t.Errorf("expected Nobody in not_found, got %v", result.NotFound)
		}
		if result.Seed != 3 {
			t.Errorf("expected seed 3, got %d", result.Seed)
		}
	})

	t.Run("build uses defaults for omitted fields", func(t *testing.T) {
		api, _ := newTestAPI(t)
		rec := do(t, api.Handler(), http.MethodPost, "/playlists", `{"artists":["Radiohead"]}`)

		var result tasks.BuildResult
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatalf("expected JSON, got %v", err)
		}
		if len(result.Tracks) != api.Defaults.TargetSize {
			t.Errorf("expected %d tracks, got %d", api.Defaults.TargetSize, len(result.Tracks))
		}
	})

	t.Run("build renders csv", func(t *testing.T) {
		api, _ := newTestAPI(t)
		rec := do(t, api.Handler(), http.MethodPost, "/playlists?format=csv", `{"artists":["Radiohead"],"size":2,"seed":9}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
			t.Errorf("expected csv content type, got %q", ct)
		}
		if seed := rec.Header().Get("X-Playlist-Seed"); seed != "9" {
			t.Errorf("expected seed header 9, got %q", seed)
		}
		if !strings.HasPrefix(rec.Body.String(), "track,artist,spotify_url\r\n") {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
	})

	t.Run("client errors", func(t *testing.T) {
		tests := []struct {
			name   string
			target string
			body   string
			want   int
		}{
			{"unknown format", "/playlists?format=xml", `{"artists":["Radiohead"]}`, http.StatusBadRequest},
			{"malformed body", "/playlists", `{"artists":`, http.StatusBadRequest},
			{"unknown field", "/playlists", `{"artists":["Radiohead"],"genre":"rock"}`, http.StatusBadRequest},
			{"no artists", "/playlists", `{"artists":[" "]}`, http.StatusBadRequest},
			{"bad size", "/playlists", `{"artists":["Radiohead"],"size":0}`, http.StatusBadRequest},
			{"nothing resolves", "/playlists", `{"artists":["Nobody"]}`, http.StatusNotFound},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				api, _ := newTestAPI(t)
				rec := do(t, api.Handler(), http.MethodPost, tt.target, tt.body)
				if rec.Code != tt.want {
					t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
				}
				if !strings.Contains(rec.Body.String(), `"error"`) {
					t.Errorf("expected error body, got %s", rec.Body.String())
				}
			})
		}
	})

	t.Run("catalog failures map to gateway errors", func(t *testing.T) {
		api, catalog := newTestAPI(t)
		catalog.SearchErr = fmt.Errorf("%w: status 500", shared.ErrAPIRequest)

		rec := do(t, api.Handler(), http.MethodPost, "/playlists", `{"artists":["Radiohead"]}`)
		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", rec.Code)
		}
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{shared.ErrInvalidInput, http.StatusBadRequest},
		{shared.ErrNoArtistsResolved, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", shared.ErrRateLimited), http.StatusTooManyRequests},
		{shared.ErrNotAuthenticated, http.StatusBadGateway},
		{fmt.Errorf("%w: invalid_client", shared.ErrAuthFailed), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestServe(t *testing.T) {
	t.Run("stops when the context is canceled", func(t *testing.T) {
		srv := New("127.0.0.1:0", http.NotFoundHandler())
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() { done <- Serve(ctx, srv, shared.NewLogger(io.Discard)) }()

		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("expected clean shutdown, got %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop")
		}
	})
}
