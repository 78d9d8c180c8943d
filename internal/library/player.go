package library

import (
	"fmt"

	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/shared"
)

// EmptyQueueMessage is shown when playback is requested with nothing to play.
const EmptyQueueMessage = "No tracks to play right now."

// State is the player's mode.
type State int

const (
	Idle State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "idle"
}

// Player walks a queue of items, wrapping at both ends.
//
// The zero value is an idle player.
type Player struct {
	queue []models.PlaylistItem
	index int
	state State
}

// Open starts playback of queue at index, clamped into range.
//
// An empty queue returns [shared.ErrEmptyQueue] and leaves the player unchanged.
func (p *Player) Open(queue []models.PlaylistItem, index int) error {
	if len(queue) == 0 {
		return fmt.Errorf("%w: %s", shared.ErrEmptyQueue, EmptyQueueMessage)
	}

	p.queue = append([]models.PlaylistItem(nil), queue...)
	p.index = max(0, min(index, len(queue)-1))
	p.state = Playing
	return nil
}

// Next advances to the following item, wrapping to the first.
func (p *Player) Next() {
	if p.state != Playing {
		return
	}
	p.index = (p.index + 1) % len(p.queue)
}

// Previous steps back to the preceding item, wrapping to the last.
func (p *Player) Previous() {
	if p.state != Playing {
		return
	}
	p.index = (p.index - 1 + len(p.queue)) % len(p.queue)
}

// Current returns the item being played.
func (p *Player) Current() (models.PlaylistItem, bool) {
	if p.state != Playing {
		return models.PlaylistItem{}, false
	}
	return p.queue[p.index], true
}

// Index returns the queue position, or -1 while idle.
func (p *Player) Index() int {
	if p.state != Playing {
		return -1
	}
	return p.index
}

// Len returns the queue length.
func (p *Player) Len() int {
	return len(p.queue)
}

func (p *Player) State() State {
	return p.state
}

// Close stops playback and drops the queue.
func (p *Player) Close() {
	p.queue = nil
	p.index = 0
	p.state = Idle
}

// EmbedURL returns the autoplaying embed URL for the current item, or "" while idle.
func (p *Player) EmbedURL() string {
	item, ok := p.Current()
	if !ok {
		return ""
	}
	return EmbedURL(item.ID)
}

// EmbedURL returns the autoplaying embed URL for a video.
func EmbedURL(videoID string) string {
	return "https://www.youtube.com/embed/" + videoID + "?autoplay=1"
}

// WatchURL returns the watch page URL for a video.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
