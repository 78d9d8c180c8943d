package library

import (
	"fmt"
	"sort"
	"strings"

	"github.com/desertthunder/vidshelf/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode orders the visible items of a playlist.
type SortMode string

const (
	SortDefault SortMode = "default" // stored order, newest first
	SortAlpha   SortMode = "alpha"   // title, ascending
	SortRating  SortMode = "rating"  // rating, descending
)

// ParseSortMode maps s to a [SortMode]; unknown values are [SortDefault].
func ParseSortMode(s string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case SortAlpha:
		return SortAlpha
	case SortRating:
		return SortRating
	default:
		return SortDefault
	}
}

// Toggle switches to target, or back to [SortDefault] when target is already active.
func (m SortMode) Toggle(target SortMode) SortMode {
	if m == target {
		return SortDefault
	}
	return target
}

// VisibleItems filters items by a case-insensitive title substring, then orders them by mode.
//
// Sorting is stable and items is never modified.
func VisibleItems(items []models.PlaylistItem, filterTerm string, mode SortMode) []models.PlaylistItem {
	term := strings.ToLower(strings.TrimSpace(filterTerm))

	list := make([]models.PlaylistItem, 0, len(items))
	for _, item := range items {
		if term == "" || strings.Contains(strings.ToLower(item.Title), term) {
			list = append(list, item)
		}
	}

	switch mode {
	case SortAlpha:
		c := collate.New(language.Und)
		sort.SliceStable(list, func(i, j int) bool {
			return c.CompareString(list[i].Title, list[j].Title) < 0
		})
	case SortRating:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Rating > list[j].Rating
		})
	}

	return list
}

// SelectActive keeps requested when it names one of playlists, otherwise picks the first playlist.
//
// Returns "" when there are no playlists.
func SelectActive(playlists []models.Playlist, requested string) string {
	if len(playlists) == 0 {
		return ""
	}
	if requested != "" && indexOf(playlists, requested) >= 0 {
		return requested
	}
	return playlists[0].ID
}

// CountLabel describes how many items a playlist holds.
func CountLabel(n int) string {
	if n == 1 {
		return "1 song in this playlist"
	}
	return fmt.Sprintf("%d songs in this playlist", n)
}

// EmptyMessage returns the notice shown when nothing is visible, or "" when items are visible.
func EmptyMessage(p *models.Playlist, filterTerm string, visible int) string {
	switch {
	case p == nil:
		return "No playlists available. Create one to get started."
	case visible > 0:
		return ""
	case strings.TrimSpace(filterTerm) != "":
		return "No matches for your playlist filter."
	default:
		return "This playlist is empty. Return to search and add tracks."
	}
}
