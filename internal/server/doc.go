// Package server provides HTTP routing, OAuth handling, and the migration
// streaming endpoint.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern. The [BasicRouter] implementation uses
// [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow for
// the CLI login commands. A temporary HTTP server starts on localhost:3000,
// handles the provider redirect, validates the state parameter, exchanges the
// code, and shuts down after delivering the token through a channel. It only
// processes one callback to prevent replay.
//
// # Migration Endpoint
//
// [MigrationHandler] exposes the migration engine over HTTP:
//
//	GET  /health      → liveness probe
//	POST /api/migrate → run a migration, streaming progress as SSE
//
// The migrate endpoint accepts a JSON body naming the source playlist IDs
// (all playlists when omitted) and streams one Server-Sent Event per engine
// event, ending with a complete event carrying the summary.
package server
