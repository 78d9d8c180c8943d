package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vidshelf/internal/library"
	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/session"
	"github.com/desertthunder/vidshelf/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	ItemsView
	PlayerView
)

// inputMode is what the text input is collecting, if anything.
type inputMode int

const (
	inputNone inputMode = iota
	inputFilter
	inputName
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	engine       *library.Engine
	sc           session.Context
	view         ViewState
	width        int
	height       int
	playlistList list.Model
	itemList     list.Model
	playlists    []models.Playlist
	activeID     string
	filter       string
	sort         library.SortMode
	input        textinput.Model
	mode         inputMode
	player       library.Player
	notice       string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a TUI model browsing sc's library through engine.
func NewModel(ctx context.Context, engine *library.Engine, sc session.Context) *Model {
	input := textinput.New()
	input.CharLimit = 120

	return &Model{
		ctx:          ctx,
		engine:       engine,
		sc:           sc,
		view:         PlaylistListView,
		playlistList: newList("Playlists"),
		itemList:     newList(""),
		sort:         library.SortDefault,
		input:        input,
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}

// Init initializes the TUI by loading the user's playlists.
func (m *Model) Init() tea.Cmd {
	return m.loadPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		m.itemList.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.handleInputKeys(msg)
		}
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case ItemsView:
			return m.handleItemsKeys(msg)
		case PlayerView:
			return m.handlePlayerKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgPlaylistsLoaded:
			m.playlists = msg.data.([]models.Playlist)
			m.activeID = library.SelectActive(m.playlists, m.activeID)
			m.playlistList.SetItems(playlistItems(m.playlists))
			for i, p := range m.playlists {
				if p.ID == m.activeID {
					m.playlistList.Select(i)
				}
			}
			m.refreshItems()
			return m, nil

		case MsgLibraryChanged:
			d := msg.data.(libraryChanged)
			m.notice = d.notice
			m.err = d.err
			if d.activeID != "" {
				m.activeID = d.activeID
			}
			return m, m.loadPlaylists()
		}
	}

	if m.mode != inputNone {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case PlaylistListView:
		body = m.renderPlaylistList()
	case ItemsView:
		body = m.renderItems()
	case PlayerView:
		body = m.renderPlayer()
	}

	if status := m.renderStatus(); status != "" {
		body = fmt.Sprintf("%s\n%s", body, status)
	}
	return body
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if selected, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			m.activeID = selected.playlist.ID
			m.filter = ""
			m.sort = library.SortDefault
			m.notice = ""
			m.refreshItems()
			m.view = ItemsView
		}
		return m, nil
	case key.Matches(msg, m.keys.create):
		return m, m.startInput(inputName, "Playlist name", "")
	case key.Matches(msg, m.keys.delete):
		if selected, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			return m, m.removePlaylist(selected.playlist.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleItemsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = PlaylistListView
		m.notice = ""
		return m, nil
	case key.Matches(msg, m.keys.filter):
		return m, m.startInput(inputFilter, "Filter by title", m.filter)
	case key.Matches(msg, m.keys.sortAlpha):
		m.sort = m.sort.Toggle(library.SortAlpha)
		m.refreshItems()
		return m, nil
	case key.Matches(msg, m.keys.sortRating):
		m.sort = m.sort.Toggle(library.SortRating)
		m.refreshItems()
		return m, nil
	case key.Matches(msg, m.keys.rate):
		if selected, ok := m.itemList.SelectedItem().(videoItem); ok {
			rating, _ := strconv.Atoi(msg.String())
			return m, m.rateItem(selected.item.ID, rating)
		}
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if selected, ok := m.itemList.SelectedItem().(videoItem); ok {
			return m, m.removeItem(selected.item.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		m.openPlayer(m.itemList.Index())
		return m, nil
	}

	var cmd tea.Cmd
	m.itemList, cmd = m.itemList.Update(msg)
	return m, cmd
}

func (m *Model) handlePlayerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.player.Close()
		m.view = ItemsView
	case key.Matches(msg, m.keys.next):
		m.player.Next()
	case key.Matches(msg, m.keys.prev):
		m.player.Previous()
	}
	return m, nil
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		if m.mode == inputFilter {
			m.filter = ""
			m.refreshItems()
		}
		m.stopInput()
		return m, nil
	case tea.KeyEnter:
		mode, value := m.mode, m.input.Value()
		m.stopInput()
		if mode == inputName {
			return m, m.createPlaylist(value)
		}
		m.filter = strings.TrimSpace(value)
		m.refreshItems()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == inputFilter {
		m.filter = strings.TrimSpace(m.input.Value())
		m.refreshItems()
	}
	return m, cmd
}

func (m *Model) startInput(mode inputMode, placeholder, value string) tea.Cmd {
	m.mode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.notice = ""
	return m.input.Focus()
}

func (m *Model) stopInput() {
	m.mode = inputNone
	m.input.Blur()
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case ItemsView:
		m.itemList, cmd = m.itemList.Update(msg)
	}
	return m, cmd
}

// activePlaylist returns the open playlist, or nil when there is none.
func (m *Model) activePlaylist() *models.Playlist {
	for i := range m.playlists {
		if m.playlists[i].ID == m.activeID {
			return &m.playlists[i]
		}
	}
	return nil
}

func (m *Model) visibleItems() []models.PlaylistItem {
	p := m.activePlaylist()
	if p == nil {
		return nil
	}
	return library.VisibleItems(p.Items, m.filter, m.sort)
}

// refreshItems rebuilds the item list from the active playlist, filter and sort mode.
func (m *Model) refreshItems() {
	p := m.activePlaylist()
	if p == nil {
		m.itemList.Title = "Select a playlist"
		m.itemList.SetItems(nil)
		m.view = PlaylistListView
		return
	}

	index := m.itemList.Index()
	m.itemList.Title = fmt.Sprintf("%s • %s", p.Name, library.CountLabel(len(p.Items)))
	m.itemList.SetItems(videoItems(m.visibleItems()))
	if n := len(m.itemList.Items()); n > 0 {
		m.itemList.Select(min(index, n-1))
	}
}

// openPlayer starts playback of the visible items at index.
func (m *Model) openPlayer(index int) {
	if err := m.player.Open(m.visibleItems(), index); err != nil {
		m.notice = library.EmptyQueueMessage
		return
	}
	m.notice = ""
	m.view = PlayerView
}

func (m *Model) loadPlaylists() tea.Cmd {
	return func() tea.Msg {
		return playlistsLoadedMsg(m.engine.ListPlaylists(m.ctx, m.sc))
	}
}

func (m *Model) createPlaylist(name string) tea.Cmd {
	return func() tea.Msg {
		p, err := m.engine.CreatePlaylist(m.ctx, m.sc, name)
		if errors.Is(err, shared.ErrValidation) {
			return libraryChangedMsg(shared.PlaylistNameMessage, "", nil)
		}
		if err != nil {
			return libraryChangedMsg("", "", err)
		}
		return libraryChangedMsg("Playlist created.", p.ID, nil)
	}
}

func (m *Model) removePlaylist(id string) tea.Cmd {
	return func() tea.Msg {
		remaining, err := m.engine.RemovePlaylist(m.ctx, m.sc, id)
		return libraryChangedMsg("Playlist deleted.", library.SelectActive(remaining, ""), err)
	}
}

func (m *Model) rateItem(itemID string, rating int) tea.Cmd {
	playlistID := m.activeID
	return func() tea.Msg {
		ok, err := m.engine.UpdateItem(m.ctx, m.sc, playlistID, itemID, models.RatingUpdate(rating))
		if err == nil && !ok {
			err = shared.ErrMissingItem
		}
		return libraryChangedMsg("Rated "+shared.Stars(rating), "", err)
	}
}

func (m *Model) removeItem(itemID string) tea.Cmd {
	playlistID := m.activeID
	return func() tea.Msg {
		_, err := m.engine.RemoveItem(m.ctx, m.sc, playlistID, itemID)
		return libraryChangedMsg("Removed from playlist.", "", err)
	}
}

func (m *Model) renderPlaylistList() string {
	if len(m.playlists) == 0 {
		title := styles.title.Render("Playlists")
		empty := styles.help.Render("No playlists yet. Create one.")
		return fmt.Sprintf("%s\n%s\n\n%s", title, empty, m.help.ShortHelpView([]key.Binding{m.keys.create, m.keys.quit}))
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.create, m.keys.delete, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderItems() string {
	p := m.activePlaylist()
	visible := len(m.itemList.Items())

	var body string
	if msg := library.EmptyMessage(p, m.filter, visible); msg != "" {
		body = fmt.Sprintf("%s\n\n%s", styles.title.Render(m.itemList.Title), styles.warn.Render(msg))
	} else {
		body = m.itemList.View()
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.filter, m.keys.sortAlpha, m.keys.sortRating, m.keys.rate, m.keys.remove, m.keys.back}
	return fmt.Sprintf("%s\n%s\n\n%s", body, m.renderOptions(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderOptions() string {
	alpha, rating := "Sort A-Z", "Sort by rating"
	switch m.sort {
	case library.SortAlpha:
		alpha += " ✓"
	case library.SortRating:
		rating += " ✓"
	}

	opts := fmt.Sprintf("%s  %s", alpha, rating)
	if m.filter != "" {
		opts = fmt.Sprintf("%s  filter: %q", opts, m.filter)
	}
	return styles.help.Render(opts)
}

func (m *Model) renderPlayer() string {
	item, ok := m.player.Current()
	if !ok {
		return styles.warn.Render(library.EmptyQueueMessage)
	}

	title := styles.title.Render(fmt.Sprintf("Now playing %d/%d", m.player.Index()+1, m.player.Len()))
	info := fmt.Sprintf("%s\n%s • %s • %s views\n%s\n\nEmbed: %s\nWatch: %s",
		styles.ok.Render(item.Title),
		item.ChannelTitle,
		shared.FormatDuration(item.Duration),
		shared.FormatCount(item.ViewCount),
		styles.stars.Render(shared.Stars(item.Rating)),
		m.player.EmbedURL(),
		library.WatchURL(item.ID),
	)

	helpKeys := []key.Binding{m.keys.next, m.keys.prev, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderStatus() string {
	var lines []string
	if m.mode != inputNone {
		lines = append(lines, m.input.View())
	}
	if m.err != nil {
		lines = append(lines, styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	if m.notice != "" {
		lines = append(lines, styles.warn.Render(m.notice))
	}
	return strings.Join(lines, "\n")
}
