package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	ZoomReset key.Binding
	Center    key.Binding
	Panel     key.Binding
	Expand    key.Binding
	ShowAll   key.Binding
	Hide      key.Binding
	Restore   key.Binding
	Group     key.Binding
	Ungroup   key.Binding
	SelectAll key.Binding
	Clear     key.Binding
	Copy      key.Binding
	Export    key.Binding
	ExportTXT key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:      key.NewBinding(key.WithKeys("h", "left", "H", "shift+left"), key.WithHelp("h/←", "pan left")),
		Right:     key.NewBinding(key.WithKeys("l", "right", "L", "shift+right"), key.WithHelp("l/→", "pan right")),
		Up:        key.NewBinding(key.WithKeys("k", "up", "K", "shift+up"), key.WithHelp("k/↑", "pan up")),
		Down:      key.NewBinding(key.WithKeys("j", "down", "J", "shift+down"), key.WithHelp("j/↓", "pan down")),
		ZoomIn:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:   key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		ZoomReset: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset zoom")),
		Center:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "center view")),
		Panel:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "toggle table list")),
		Expand:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand/collapse selected")),
		ShowAll:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "show all fields")),
		Hide:      key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "remove selected from canvas")),
		Restore:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restore all tables")),
		Group:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "group selected")),
		Ungroup:   key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "ungroup selected")),
		SelectAll: key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "select all")),
		Clear:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy selected names")),
		Export:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "export PNG")),
		ExportTXT: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "export text")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Panel, k.Center, k.Export, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.ZoomIn, k.ZoomOut, k.ZoomReset, k.Center},
		{k.Expand, k.ShowAll, k.Hide, k.Restore, k.Panel},
		{k.SelectAll, k.Clear, k.Group, k.Ungroup, k.Copy, k.Export, k.ExportTXT, k.Help, k.Quit},
	}
}
