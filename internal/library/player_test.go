package library

import (
	"errors"
	"testing"

	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/shared"
)

func queue() []models.PlaylistItem {
	return []models.PlaylistItem{item("v1", "One", 0), item("v2", "Two", 0), item("v3", "Three", 0)}
}

func TestPlayerOpen(t *testing.T) {
	t.Run("empty queue", func(t *testing.T) {
		var p Player
		err := p.Open(nil, 0)
		if !errors.Is(err, shared.ErrEmptyQueue) {
			t.Fatalf("expected ErrEmptyQueue, got %v", err)
		}
		if p.State() != Idle || p.Index() != -1 {
			t.Errorf("expected idle player, got %s at %d", p.State(), p.Index())
		}
	})

	tests := []struct {
		index int
		want  int
	}{
		{0, 0}, {2, 2}, {7, 2}, {-3, 0},
	}
	for _, tt := range tests {
		var p Player
		if err := p.Open(queue(), tt.index); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Index() != tt.want {
			t.Errorf("Open(%d): index %d, want %d", tt.index, p.Index(), tt.want)
		}
	}
}

func TestPlayerNavigation(t *testing.T) {
	var p Player

	p.Next()
	p.Previous()
	if p.State() != Idle {
		t.Fatal("navigation while idle must not start playback")
	}

	_ = p.Open(queue(), 2)
	p.Next()
	if p.Index() != 0 {
		t.Errorf("expected wrap to 0, got %d", p.Index())
	}
	p.Previous()
	if p.Index() != 2 {
		t.Errorf("expected wrap to 2, got %d", p.Index())
	}
	p.Previous()
	cur, ok := p.Current()
	if !ok || cur.ID != "v2" {
		t.Errorf("expected v2, got %+v", cur)
	}
	if p.EmbedURL() != "https://www.youtube.com/embed/v2?autoplay=1" {
		t.Errorf("unexpected embed url %q", p.EmbedURL())
	}

	p.Close()
	if p.State() != Idle || p.EmbedURL() != "" || p.Len() != 0 {
		t.Error("expected idle player after close")
	}
}

func TestPlayerSingleItem(t *testing.T) {
	var p Player
	_ = p.Open(queue()[:1], 0)

	p.Next()
	p.Previous()
	if p.Index() != 0 {
		t.Errorf("single item queue should stay at 0, got %d", p.Index())
	}
}

func TestPlayerCopiesQueue(t *testing.T) {
	q := queue()
	var p Player
	_ = p.Open(q, 0)

	q[0].Title = "changed"
	cur, _ := p.Current()
	if cur.Title != "One" {
		t.Errorf("player queue must not alias the caller's slice, got %q", cur.Title)
	}
}
