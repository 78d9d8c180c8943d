package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vidshelf/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPlaylistsLoaded MsgKind = iota
	MsgLibraryChanged
)

type libraryChanged struct {
	notice   string
	activeID string
	err      error
}

// playlistsLoadedMsg is the constructor for [MsgPlaylistsLoaded]
func playlistsLoadedMsg(playlists []models.Playlist) Msg {
	return Msg{kind: MsgPlaylistsLoaded, data: playlists}
}

// libraryChangedMsg is the constructor for [MsgLibraryChanged]. A non-empty activeID selects that playlist.
func libraryChangedMsg(notice, activeID string, err error) Msg {
	return Msg{kind: MsgLibraryChanged, data: libraryChanged{notice, activeID, err}}
}
