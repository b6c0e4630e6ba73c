// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	// Form
	Submit    key.Binding
	NextField key.Binding
	PrevField key.Binding

	// List
	Up     key.Binding
	Down   key.Binding
	Edit   key.Binding
	Delete key.Binding

	// General
	Escape    key.Binding
	ClearAll  key.Binding
	ToggleLog key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Form
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add item"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),

		// List
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "move down"),
		),
		Edit: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "edit item"),
		),
		Delete: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "delete item"),
		),

		// General
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "clear all"),
		),
		ToggleLog: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "toggle log"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// EditMode returns a copy of k with help text for editing an item: enter
// saves instead of adding, esc cancels, and delete is available.
func (k KeyMap) EditMode() KeyMap {
	k.Submit.SetHelp("enter", "update item")
	k.Escape.SetHelp("esc", "cancel edit")
	k.Delete.SetEnabled(true)
	return k
}

// AddMode returns a copy of k for adding items. Delete is disabled because
// nothing is selected for editing.
func (k KeyMap) AddMode() KeyMap {
	k.Submit.SetHelp("enter", "add item")
	k.Escape.SetHelp("esc", "back")
	k.Delete.SetEnabled(false)
	return k
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Edit, k.Delete, k.Escape, k.ClearAll, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.NextField, k.PrevField},        // Form
		{k.Up, k.Down, k.Edit, k.Delete},            // List
		{k.Escape, k.ClearAll, k.ToggleLog, k.Quit}, // General
	}
}
