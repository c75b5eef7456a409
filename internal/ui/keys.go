package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/five82/perch/internal/menu"
)

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// Menu commands
	ToggleRead  key.Binding
	Subscribe   key.Binding
	ManageFeeds key.Binding
	UpdateFeeds key.Binding
	Refresh     key.Binding
	AllEntries  key.Binding
	ShowStarred key.Binding

	// Menu focus
	MenuLeft  key.Binding
	MenuRight key.Binding
	Activate  key.Binding

	// List navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Dialogs
	Confirm key.Binding
	Delete  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close dialog"),
		),

		ToggleRead: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Show/hide read"),
		),
		Subscribe: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Subscribe"),
		),
		ManageFeeds: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Manage feeds"),
		),
		UpdateFeeds: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Update feeds"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),
		AllEntries: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "All entries"),
		),
		ShowStarred: key.NewBinding(
			key.WithKeys("*"),
			key.WithHelp("*", "Show starred"),
		),

		MenuLeft: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "Previous menu item"),
		),
		MenuRight: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "Next menu item"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Activate menu item"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d d", "Unsubscribe"),
		),
	}
}

type commandBinding struct {
	cmd     menu.Command
	binding key.Binding
}

// commandBindings pairs each menu command with the key that fires it, in
// menu order.
func (k keyMap) commandBindings() []commandBinding {
	byCmd := map[menu.Command]key.Binding{
		menu.CmdSubscribe:   k.Subscribe,
		menu.CmdManageFeeds: k.ManageFeeds,
		menu.CmdUpdateFeeds: k.UpdateFeeds,
		menu.CmdRefresh:     k.Refresh,
		menu.CmdAllEntries:  k.AllEntries,
		menu.CmdShowStarred: k.ShowStarred,
	}
	out := make([]commandBinding, 0, len(byCmd))
	for _, cmd := range menu.Commands() {
		if b, ok := byCmd[cmd]; ok {
			out = append(out, commandBinding{cmd: cmd, binding: b})
		}
	}
	return out
}

// hintFor returns the key hint shown next to a menu item.
func (k keyMap) hintFor(class string) string {
	if class == menu.ToggleClass {
		return k.ToggleRead.Help().Key
	}
	for _, cb := range k.commandBindings() {
		if string(cb.cmd) == class {
			return cb.binding.Help().Key
		}
	}
	return ""
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ToggleRead, k.Subscribe, k.ManageFeeds, k.UpdateFeeds, k.Refresh, k.AllEntries, k.ShowStarred},
		{k.MenuLeft, k.MenuRight, k.Activate},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
