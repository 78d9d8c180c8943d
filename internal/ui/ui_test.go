package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vidshelf/internal/library"
	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/repositories"
	"github.com/desertthunder/vidshelf/internal/session"
	"github.com/desertthunder/vidshelf/internal/shared"
	tu "github.com/desertthunder/vidshelf/internal/testing"
)

var ana = session.Context{Username: "ana"}

func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send delivers msg and runs the library commands it triggers until none are left.
func send(t *testing.T, m *Model, msg tea.Msg) {
	t.Helper()
	_, cmd := m.Update(msg)
	for cmd != nil {
		next, ok := cmd().(Msg)
		if !ok {
			return
		}
		_, cmd = m.Update(next)
	}
}

// setupModel returns a loaded model over a library holding one playlist with two items.
func setupModel(t *testing.T) (*Model, *library.Engine, *models.Playlist) {
	t.Helper()
	ctx := context.Background()
	engine := library.NewEngine(repositories.NewStore(repositories.NewMemoryDocuments(), nil), nil)

	p, err := engine.CreatePlaylist(ctx, ana, "Focus")
	if err != nil {
		t.Fatalf("failed to create playlist: %v", err)
	}
	for _, v := range []models.Video{tu.SampleVideo("v1", "Alpha"), tu.SampleVideo("v2", "beta")} {
		if _, err := engine.AddItem(ctx, ana, p.ID, v); err != nil {
			t.Fatalf("failed to add item: %v", err)
		}
	}

	m := NewModel(ctx, engine, ana)
	send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	send(t, m, m.Init()())
	return m, engine, p
}

func visibleIDs(m *Model) string {
	var ids []string
	for _, it := range m.itemList.Items() {
		ids = append(ids, it.(videoItem).item.ID)
	}
	return strings.Join(ids, ",")
}

func TestModelLoadsPlaylists(t *testing.T) {
	m, _, p := setupModel(t)

	if len(m.playlists) != 1 || m.activeID != p.ID {
		t.Fatalf("expected Focus to be active, got %+v", m.playlists)
	}
	if !strings.Contains(m.View(), "Focus") {
		t.Error("expected playlist name in view")
	}
}

func TestItemsView(t *testing.T) {
	m, engine, p := setupModel(t)
	ctx := context.Background()

	send(t, m, press("enter"))
	if m.view != ItemsView {
		t.Fatalf("expected items view, got %v", m.view)
	}
	if got := visibleIDs(m); got != "v2,v1" {
		t.Errorf("expected newest first, got %s", got)
	}

	t.Run("sort toggles", func(t *testing.T) {
		send(t, m, press("a"))
		if got := visibleIDs(m); got != "v1,v2" {
			t.Errorf("expected A-Z order, got %s", got)
		}
		if !strings.Contains(m.View(), "Sort A-Z ✓") {
			t.Error("expected A-Z marker")
		}
		send(t, m, press("a"))
		if got := visibleIDs(m); got != "v2,v1" {
			t.Errorf("expected default order after second toggle, got %s", got)
		}
	})

	t.Run("rating persists", func(t *testing.T) {
		m.itemList.Select(1)
		send(t, m, press("4"))

		saved, _ := engine.FindPlaylist(ctx, ana, p.ID)
		if i := saved.IndexOf("v1"); saved.Items[i].Rating != 4 {
			t.Errorf("expected v1 rated 4, got %d", saved.Items[i].Rating)
		}

		send(t, m, press("r"))
		if got := visibleIDs(m); got != "v1,v2" {
			t.Errorf("expected rating order, got %s", got)
		}
		send(t, m, press("r"))
	})

	t.Run("filter", func(t *testing.T) {
		m.Update(press("/"))
		m.Update(press("BET"))
		if got := visibleIDs(m); got != "v2" {
			t.Errorf("expected only v2, got %s", got)
		}
		send(t, m, press("enter"))
		if m.mode != inputNone || m.filter != "BET" {
			t.Errorf("expected filter to stick, got mode %v filter %q", m.mode, m.filter)
		}

		m.Update(press("/"))
		m.Update(press("zzz"))
		if !strings.Contains(m.View(), "No matches for your playlist filter.") {
			t.Error("expected no-matches notice")
		}
		send(t, m, press("esc"))
		if m.filter != "" || visibleIDs(m) != "v2,v1" {
			t.Errorf("expected filter cleared, got %q %s", m.filter, visibleIDs(m))
		}
	})

	t.Run("remove", func(t *testing.T) {
		m.itemList.Select(0)
		send(t, m, press("x"))

		saved, _ := engine.FindPlaylist(ctx, ana, p.ID)
		if saved.Contains("v2") || len(saved.Items) != 1 {
			t.Errorf("expected v2 removed, got %+v", saved.Items)
		}
		if m.notice != "Removed from playlist." {
			t.Errorf("unexpected notice %q", m.notice)
		}
	})
}

func TestPlayer(t *testing.T) {
	m, _, _ := setupModel(t)
	send(t, m, press("enter"))

	m.itemList.Select(1)
	send(t, m, press("enter"))
	if m.view != PlayerView {
		t.Fatalf("expected player view, got %v", m.view)
	}
	if item, _ := m.player.Current(); item.ID != "v1" {
		t.Errorf("expected v1, got %s", item.ID)
	}

	send(t, m, press("n"))
	if item, _ := m.player.Current(); item.ID != "v2" {
		t.Errorf("expected wrap to v2, got %s", item.ID)
	}
	send(t, m, press("p"))
	if item, _ := m.player.Current(); item.ID != "v1" {
		t.Errorf("expected back to v1, got %s", item.ID)
	}
	if !strings.Contains(m.View(), "https://www.youtube.com/embed/v1?autoplay=1") {
		t.Error("expected embed url in view")
	}

	send(t, m, press("esc"))
	if m.view != ItemsView || m.player.State() != library.Idle {
		t.Errorf("expected idle player in items view, got %v %v", m.view, m.player.State())
	}

	t.Run("empty queue", func(t *testing.T) {
		m.Update(press("/"))
		m.Update(press("zzz"))
		send(t, m, press("enter"))
		send(t, m, press("enter"))
		if m.view != ItemsView {
			t.Errorf("expected to stay in items view, got %v", m.view)
		}
		if m.notice != library.EmptyQueueMessage {
			t.Errorf("expected %q, got %q", library.EmptyQueueMessage, m.notice)
		}
	})
}

func TestPlaylistManagement(t *testing.T) {
	m, engine, p := setupModel(t)
	ctx := context.Background()

	t.Run("blank name", func(t *testing.T) {
		m.Update(press("n"))
		send(t, m, press("enter"))
		if m.notice != shared.PlaylistNameMessage {
			t.Errorf("expected %q, got %q", shared.PlaylistNameMessage, m.notice)
		}
	})

	t.Run("create", func(t *testing.T) {
		m.Update(press("n"))
		m.Update(press("Mix"))
		send(t, m, press("enter"))

		if len(m.playlists) != 2 || m.playlists[0].Name != "Mix" {
			t.Fatalf("expected Mix first, got %+v", m.playlists)
		}
		if m.activeID != m.playlists[0].ID {
			t.Error("expected the new playlist to be active")
		}
		if m.notice != "Playlist created." {
			t.Errorf("unexpected notice %q", m.notice)
		}
	})

	t.Run("delete", func(t *testing.T) {
		m.playlistList.Select(1)
		send(t, m, press("d"))

		remaining := engine.ListPlaylists(ctx, ana)
		if len(remaining) != 1 || remaining[0].ID == p.ID {
			t.Errorf("expected Focus deleted, got %+v", remaining)
		}
	})
}
