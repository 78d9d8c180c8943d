// package models defines the data model for the video library
package models

import (
	"fmt"
	"time"
)

const (
	MinRating = 0
	MaxRating = 5
)

// User is a registered account. Username is the case-sensitive identity key.
//
// Password is stored verbatim.
type User struct {
	Username  string    `json:"username"`
	FullName  string    `json:"fullName,omitempty"`
	Email     string    `json:"email,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Password  string    `json:"password,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// DisplayName returns the full name when set, falling back to the username.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// Video is a single result from the remote catalog.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	Thumbnail    string `json:"thumbnail"`
	Duration     string `json:"duration"`  // ISO-8601 duration, e.g. PT3M20S
	ViewCount    string `json:"viewCount"` // decimal string as returned by the catalog
}

// PlaylistItem is a [Video] saved into a playlist with local metadata.
type PlaylistItem struct {
	Video
	Rating  int       `json:"rating"`
	AddedAt time.Time `json:"addedAt"`
}

// NewPlaylistItem wraps v with a zero rating, added at t.
func NewPlaylistItem(v Video, t time.Time) PlaylistItem {
	return PlaylistItem{Video: v, Rating: MinRating, AddedAt: t}
}

// Playlist is an ordered sequence of items. The newest items come first.
type Playlist struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"createdAt"`
	Items     []PlaylistItem `json:"items"`
}

// IndexOf returns the position of the item with the given catalog id, or -1.
func (p *Playlist) IndexOf(itemID string) int {
	for i, item := range p.Items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}

// Contains reports whether the playlist already holds videoID.
func (p *Playlist) Contains(videoID string) bool {
	return p.IndexOf(videoID) >= 0
}

// Validate checks the fields every persisted playlist must carry.
func (p *Playlist) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("playlist id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("playlist name is required")
	}
	return nil
}

// ItemUpdate is a partial update for a [PlaylistItem]. Nil fields are left unchanged.
type ItemUpdate struct {
	Title        *string `json:"title,omitempty"`
	ChannelTitle *string `json:"channelTitle,omitempty"`
	Thumbnail    *string `json:"thumbnail,omitempty"`
	Duration     *string `json:"duration,omitempty"`
	ViewCount    *string `json:"viewCount,omitempty"`
	Rating       *int    `json:"rating,omitempty"`
}

// RatingUpdate builds an [ItemUpdate] that only changes the rating.
func RatingUpdate(rating int) ItemUpdate {
	return ItemUpdate{Rating: &rating}
}

// Apply merges the non-nil fields of u into item.
func (u ItemUpdate) Apply(item *PlaylistItem) {
	if u.Title != nil {
		item.Title = *u.Title
	}
	if u.ChannelTitle != nil {
		item.ChannelTitle = *u.ChannelTitle
	}
	if u.Thumbnail != nil {
		item.Thumbnail = *u.Thumbnail
	}
	if u.Duration != nil {
		item.Duration = *u.Duration
	}
	if u.ViewCount != nil {
		item.ViewCount = *u.ViewCount
	}
	if u.Rating != nil {
		item.Rating = ClampRating(*u.Rating)
	}
}

// ClampRating limits r to [MinRating, MaxRating].
func ClampRating(r int) int {
	if r < MinRating {
		return MinRating
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}

// Reason explains why an add was rejected.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonMissingPlaylist Reason = "missing_playlist"
	ReasonDuplicate       Reason = "duplicate"
)

// AddResult is the outcome of adding a video to a playlist.
//
// Playlist is set on success and on duplicate rejection so callers can inspect it.
type AddResult struct {
	OK       bool      `json:"ok"`
	Reason   Reason    `json:"reason,omitempty"`
	Playlist *Playlist `json:"playlist,omitempty"`
}
