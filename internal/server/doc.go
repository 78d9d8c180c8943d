// Package server exposes the video library as a JSON API over HTTP.
//
// # Router Infrastructure
//
// [BasicRouter] routes requests through a middleware stack. [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns, so "POST /playlists/{id}/items"
// both filters by method and binds the id path value.
//
// # Sessions
//
// Each browser gets an opaque session cookie ([SessionCookie]) with no expiry, so it lasts until the browser
// closes. [Sessions] maps the cookie to a session-scoped document store, in memory or in Redis with a TTL.
// The session guard runs against that store on every request, the same way the CLI runs it against its
// session database.
//
// Routes other than registration, login, logout, health and metrics require a session. Unauthenticated
// requests are redirected to /login?next=<requested location>. POST /login reports where to go next,
// refusing destinations on another origin.
//
// # Routes
//
//	GET    /health
//	GET    /metrics
//	POST   /register
//	GET    /login
//	POST   /login
//	POST   /logout
//	GET    /me
//	GET    /search?q=
//	GET    /apikey
//	PUT    /apikey
//	GET    /playlists?playlistId=&filter=&sort=
//	POST   /playlists
//	DELETE /playlists/{id}
//	POST   /playlists/{id}/items
//	PATCH  /playlists/{id}/items/{itemId}
//	DELETE /playlists/{id}/items/{itemId}
//	GET    /playlists/{id}/play?index=&filter=&sort=
//
// Errors are reported as {"error": "<message>"} with the user-facing message.
package server
