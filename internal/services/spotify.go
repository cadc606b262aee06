// Spotify API implementation of [Catalog]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/models"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	maxSearchLimit = 50
	maxAlbumLimit  = 50
	maxTrackLimit  = 50
)

// SpotifyArtist represents a full Spotify artist object as returned by search.
type SpotifyArtist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	URI        string   `json:"uri"`
}

type artistSearchResponse struct {
	Artists struct {
		Items []SpotifyArtist `json:"items"`
		Total int             `json:"total"`
		Next  *string         `json:"next"`
	} `json:"artists"`
}

// SpotifyService implements the [Catalog] interface for the Spotify Web API.
// Uses [clientcredentials] for app authentication and a [rate.Limiter] to pace requests.
type SpotifyService struct {
	config      *clientcredentials.Config
	httpClient  *http.Client
	tokenClient *http.Client
	limiter     *rate.Limiter
	baseURL     string
}

// SpotifyOption customizes a [SpotifyService].
type SpotifyOption func(*spotifyOptions)

type spotifyOptions struct {
	baseURL    string
	tokenURL   string
	rps        float64
	httpClient *http.Client
}

// WithBaseURL overrides the Web API base URL.
func WithBaseURL(u string) SpotifyOption {
	return func(o *spotifyOptions) { o.baseURL = strings.TrimRight(u, "/") }
}

// WithTokenURL overrides the OAuth2 token endpoint.
func WithTokenURL(u string) SpotifyOption {
	return func(o *spotifyOptions) { o.tokenURL = u }
}

// WithRateLimit sets the maximum sustained request rate. Zero disables throttling.
func WithRateLimit(rps float64) SpotifyOption {
	return func(o *spotifyOptions) { o.rps = rps }
}

// WithHTTPClient sets the transport used for both token and API requests.
func WithHTTPClient(c *http.Client) SpotifyOption {
	return func(o *spotifyOptions) { o.httpClient = c }
}

// NewSpotifyService creates a new Spotify catalog client with the given client credentials.
func NewSpotifyService(credentials map[string]string, opts ...SpotifyOption) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id in credentials", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret in credentials", shared.ErrMissingCredentials)
	}

	o := spotifyOptions{baseURL: spotifyBaseURL, tokenURL: spotifyTokenURL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.baseURL == "" {
		o.baseURL = spotifyBaseURL
	}
	if o.tokenURL == "" {
		o.tokenURL = spotifyTokenURL
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     o.tokenURL,
	}

	ctx := context.Background()
	if o.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
	}

	limit := rate.Inf
	if o.rps > 0 {
		limit = rate.Limit(o.rps)
	}

	return &SpotifyService{
		config:      config,
		httpClient:  config.Client(ctx),
		tokenClient: o.httpClient,
		limiter:     rate.NewLimiter(limit, 1),
		baseURL:     o.baseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Authenticate fetches an app token eagerly so bad credentials surface before a build starts.
func (s *SpotifyService) Authenticate(ctx context.Context) error {
	if s.tokenClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.tokenClient)
	}
	if _, err := s.config.Token(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	return nil
}

// doRequest performs a GET against the Web API and decodes the JSON body into result.
//
// endpoint is either a path relative to the base URL or an absolute next-page URL.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	apiURL := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		apiURL = s.baseURL + endpoint
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: spotify API status %d", shared.ErrNotAuthenticated, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrNotFound, endpoint)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: retry after %s", shared.ErrRateLimited, resp.Header.Get("Retry-After"))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: spotify API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SearchArtists searches the catalog for artists by name.
func (s *SpotifyService) SearchArtists(ctx context.Context, name string, limit int) ([]models.Artist, error) {
	params := url.Values{}
	params.Set("q", name)
	params.Set("type", "artist")
	params.Set("limit", strconv.Itoa(clamp(limit, maxSearchLimit)))

	var response artistSearchResponse
	if err := s.doRequest(ctx, "/search?"+params.Encode(), &response); err != nil {
		return nil, err
	}

	artists := make([]models.Artist, 0, len(response.Artists.Items))
	for _, a := range response.Artists.Items {
		artists = append(artists, models.Artist{ID: a.ID, Name: a.Name, Popularity: a.Popularity})
	}
	return artists, nil
}

// ArtistAlbums retrieves the first page of an artist's albums filtered by release group and market.
func (s *SpotifyService) ArtistAlbums(ctx context.Context, artistID string, query AlbumQuery) (*AlbumPage, error) {
	params := url.Values{}
	if len(query.Types) > 0 {
		params.Set("include_groups", strings.Join(query.Types, ","))
	}
	if query.Market != "" {
		params.Set("market", query.Market)
	}
	params.Set("limit", strconv.Itoa(clamp(query.Limit, maxAlbumLimit)))
	params.Set("offset", strconv.Itoa(max(query.Offset, 0)))

	endpoint := fmt.Sprintf("/artists/%s/albums?%s", url.PathEscape(artistID), params.Encode())

	var page AlbumPage
	if err := s.doRequest(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// NextAlbums follows page.Next, returning nil when there is no further page.
func (s *SpotifyService) NextAlbums(ctx context.Context, page *AlbumPage) (*AlbumPage, error) {
	if !page.HasNext() {
		return nil, nil
	}

	var next AlbumPage
	if err := s.doRequest(ctx, *page.Next, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// AlbumTracks retrieves one page of an album's tracks.
func (s *SpotifyService) AlbumTracks(ctx context.Context, albumID string, limit, offset int) (*TrackPage, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(clamp(limit, maxTrackLimit)))
	params.Set("offset", strconv.Itoa(max(offset, 0)))

	endpoint := fmt.Sprintf("/albums/%s/tracks?%s", url.PathEscape(albumID), params.Encode())

	var page TrackPage
	if err := s.doRequest(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// NextTracks follows page.Next, returning nil when there is no further page.
func (s *SpotifyService) NextTracks(ctx context.Context, page *TrackPage) (*TrackPage, error) {
	if !page.HasNext() {
		return nil, nil
	}

	var next TrackPage
	if err := s.doRequest(ctx, *page.Next, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// clamp bounds a page size to [1, upper], defaulting non-positive values to upper.
func clamp(limit, upper int) int {
	if limit <= 0 || limit > upper {
		return upper
	}
	return limit
}
