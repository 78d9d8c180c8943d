package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	back       key.Binding
	create     key.Binding
	delete     key.Binding
	filter     key.Binding
	sortAlpha  key.Binding
	sortRating key.Binding
	rate       key.Binding
	remove     key.Binding
	next       key.Binding
	prev       key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		create:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new playlist")),
		delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete playlist")),
		filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		sortAlpha:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "sort A-Z")),
		sortRating: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "sort by rating")),
		rate:       key.NewBinding(key.WithKeys("0", "1", "2", "3", "4", "5"), key.WithHelp("0-5", "rate")),
		remove:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		next:       key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "next")),
		prev:       key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p", "previous")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.create, k.delete, k.filter},
		{k.sortAlpha, k.sortRating, k.rate, k.remove},
		{k.next, k.prev, k.quit},
	}
}
