// Package library implements the playlist engine.
//
// All playlists live in one durable document ([repositories.KeyPlaylists]) mapping usernames to
// their ordered playlists. Every operation takes a [session.Context] naming the partition it may
// touch, and every mutation reads the whole document, changes the caller's entry and writes it back.
//
// Other users' entries are carried through untouched, even when they cannot be decoded.
//
// The package also holds the pure view helpers ([VisibleItems], [SelectActive]) and the [Player]
// state machine shared by every surface.
package library
