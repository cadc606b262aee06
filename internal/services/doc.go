// Package services defines the [Catalog] interface for remote music catalogs and implements it for Spotify.
//
// # Catalog Interface
//
// The playlist generator only reads from the catalog: artist search, artist album listings and album track
// listings, each paginated with an opaque next cursor. Keeping the contract this small lets tests replace the
// network with a deterministic stub.
//
// # Spotify Implementation
//
// [SpotifyService] authenticates with the OAuth2 client credentials flow; the [clientcredentials.Config]
// token source fetches and refreshes the app token transparently.
//
// Every request waits on a [rate.Limiter] so bursts of album and track page fetches stay under the API's rate
// limits. Retries are left to the caller.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : credentials rejected (401)
//   - [shared.ErrNotFound] : artist or album ID unknown (404)
//   - [shared.ErrRateLimited] : request throttled by the API (429)
//   - [shared.ErrAPIRequest] : any other failed HTTP request
//
// # API Mappings
//
// Search results map to [models.Artist]; album and track listings are returned as [AlbumPage] and [TrackPage]
// without further interpretation so the sampling code sees the raw artist credits.
package services
