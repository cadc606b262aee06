// Package server exposes the playlist engine over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation registers method-qualified patterns ("POST /playlists") on an [http.ServeMux],
// so unsupported methods get a 405 from the mux itself.
//
// # API
//
// [API] registers the JSON endpoints used by `playgen serve`:
//
//	GET  /healthz         → liveness and catalog name
//	GET  /artists?q=NAME  → search candidates and the artist a build would pick
//	POST /playlists       → build a playlist; ?format= selects csv, yaml, markdown or text instead of JSON
//
// Builds run one request at a time per connection; the engine itself is sequential.
package server
