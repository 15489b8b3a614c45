package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/aretw0/grove/internal/config"
)

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	New       key.Binding
	Rename    key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Mode      key.Binding
	Copy      key.Binding
	Back      key.Binding
	Quit      key.Binding
	Newline   key.Binding
	NextField key.Binding
	Cancel    key.Binding
}

func newKeyMap(km config.Keymap) keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys(km.Up...), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys(km.Down...), key.WithHelp("↓/j", "down")),
		Select:    key.NewBinding(key.WithKeys(km.Select...), key.WithHelp("enter", "open")),
		New:       key.NewBinding(key.WithKeys(km.New...), key.WithHelp(first(km.New), "new")),
		Rename:    key.NewBinding(key.WithKeys(km.Rename...), key.WithHelp(first(km.Rename), "rename")),
		Edit:      key.NewBinding(key.WithKeys(km.Edit...), key.WithHelp(first(km.Edit), "edit")),
		Delete:    key.NewBinding(key.WithKeys(km.Delete...), key.WithHelp(first(km.Delete), "delete")),
		Mode:      key.NewBinding(key.WithKeys(km.Mode...), key.WithHelp(first(km.Mode), "viewer/editor")),
		Copy:      key.NewBinding(key.WithKeys(km.Copy...), key.WithHelp(first(km.Copy), "copy")),
		Back:      key.NewBinding(key.WithKeys(km.Back...), key.WithHelp(first(km.Back), "back")),
		Quit:      key.NewBinding(key.WithKeys(km.Quit...), key.WithHelp(first(km.Quit), "quit")),
		Newline:   key.NewBinding(key.WithKeys(km.Newline...), key.WithHelp(first(km.Newline), "newline")),
		NextField: key.NewBinding(key.WithKeys(km.NextField...), key.WithHelp(first(km.NextField), "next field")),
		Cancel:    key.NewBinding(key.WithKeys(km.Cancel...), key.WithHelp(first(km.Cancel), "cancel")),
	}
}

func first(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

func helpLine(bindings ...key.Binding) string {
	out := ""
	for _, b := range bindings {
		if !b.Enabled() || b.Help().Key == "" {
			continue
		}
		if out != "" {
			out += "  "
		}
		out += b.Help().Key + " " + b.Help().Desc
	}
	return out
}
