// Package session gates access to the library behind a session-scoped identity.
//
// The guard reads and writes a single session document ([repositories.KeyCurrentUser]) holding the
// logged-in username. Callers get an explicit [Context] back and pass it to every library operation
// instead of consulting ambient state.
//
// Each surface decides what "session" means by choosing the backing documents:
//   - CLI: a database file in the temp directory
//   - HTTP: one store per browser-session cookie
//   - TUI and tests: memory
package session
