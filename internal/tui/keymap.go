package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts for the deal list.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding

	// Selection
	ToggleSelect   key.Binding
	SelectAll      key.Binding
	ClearSelection key.Binding

	// List state
	Search      key.Binding
	FilterStage key.Binding
	FilterOwner key.Binding
	CycleSort   key.Binding
	FlipSort    key.Binding
	HideColumn  key.Binding

	// Actions
	EditStatus key.Binding
	EditStage  key.Binding
	Assign     key.Binding
	Delete     key.Binding
	Refresh    key.Binding

	// Application
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("h", "left", "pgup"),
			key.WithHelp("←/h", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("l", "right", "pgdown"),
			key.WithHelp("→/l", "next page"),
		),
		ToggleSelect: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x", "select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "select page"),
		),
		ClearSelection: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "clear selection"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		FilterStage: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "stage filter"),
		),
		FilterOwner: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "owner filter"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort field"),
		),
		FlipSort: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "sort direction"),
		),
		HideColumn: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "hide sort column"),
		),
		EditStatus: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit status"),
		),
		EditStage: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "advance stage"),
		),
		Assign: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "assign owner"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete selected"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
