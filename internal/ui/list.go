package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/vidshelf/internal/library"
	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/shared"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = videoItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	return fmt.Sprintf("%s • created %s", library.CountLabel(len(i.playlist.Items)), i.playlist.CreatedAt.Format("2006-01-02"))
}

// videoItem wraps [models.PlaylistItem] to implement [list.Item].
type videoItem struct {
	item models.PlaylistItem
}

func (i videoItem) FilterValue() string { return i.item.Title }
func (i videoItem) Title() string       { return i.item.Title }
func (i videoItem) Description() string {
	return fmt.Sprintf("%s • %s • %s views • %s",
		i.item.ChannelTitle,
		shared.FormatDuration(i.item.Duration),
		shared.FormatCount(i.item.ViewCount),
		styles.stars.Render(shared.Stars(i.item.Rating)),
	)
}

func playlistItems(playlists []models.Playlist) []list.Item {
	items := make([]list.Item, len(playlists))
	for i, p := range playlists {
		items[i] = playlistItem{playlist: p}
	}
	return items
}

func videoItems(visible []models.PlaylistItem) []list.Item {
	items := make([]list.Item, len(visible))
	for i, it := range visible {
		items[i] = videoItem{item: it}
	}
	return items
}
