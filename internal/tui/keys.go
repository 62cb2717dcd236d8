package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"waveline/internal/tui/focus"
)

// KeyMap defines all key bindings for the TUI
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Actions
	Enter   key.Binding
	Back    key.Binding
	Quit    key.Binding
	Help    key.Binding
	Refresh key.Binding

	// View switching
	Feed     key.Binding
	Stories  key.Binding
	Friends  key.Binding
	Messages key.Binding
	Live     key.Binding
	Settings key.Binding

	// Post actions
	Compose key.Binding
	Reply   key.Binding
	React   key.Binding
	Delete  key.Binding

	// Tab navigation
	NextTab key.Binding
	PrevTab key.Binding

	// Input/Edit
	Submit key.Binding
	Cancel key.Binding
}

// ShouldHandleKey reports whether a global binding may act on the key.
// While an input is open every key, ESC and Enter included, belongs to the
// view that owns the field.
func (k KeyMap) ShouldHandleKey(mode focus.Mode, msg tea.KeyMsg) bool {
	return mode == focus.ModeNavigation
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "u"),
			key.WithHelp("pgup/u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "d"),
			key.WithHelp("pgdown/d", "page down"),
		),

		// Actions
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "refresh"),
		),

		// View switching
		Feed: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "feed"),
		),
		Stories: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "stories"),
		),
		Friends: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "friends"),
		),
		Messages: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "messages"),
		),
		Live: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "live"),
		),
		Settings: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "settings"),
		),

		// Post actions
		Compose: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new post"),
		),
		Reply: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment"),
		),
		React: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "react"),
		),
		Delete: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete"),
		),

		// Tab navigation
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tab"),
		),

		// Input/Edit
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp returns a short help message
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Enter, k.Back, k.Help, k.Quit,
	}
}

// FullHelp returns the full help message
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.PageUp, k.PageDown, k.Enter, k.Back},
		{k.Feed, k.Stories, k.Friends, k.Messages},
		{k.Live, k.Settings, k.Refresh, k.Quit},
	}
}
