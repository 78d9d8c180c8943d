// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI browses the logged-in user's library:
//  1. [PlaylistListView] : Browse playlists, create (n) or delete (d) one
//  2. [ItemsView] : Filter (/), toggle A-Z (a) or rating (r) order, rate (0-5), remove (x) and play (enter)
//  3. [PlayerView] : Step through the visible queue with n/p, close with esc
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Library operations run as commands against the [library.Engine] and report back through [Msg].
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
