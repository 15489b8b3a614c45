package config

import (
	"errors"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Keymap lists the keys bound to each TUI action, in bubbletea key notation.
type Keymap struct {
	Up        []string `toml:"up"`
	Down      []string `toml:"down"`
	Select    []string `toml:"select"`
	New       []string `toml:"new"`
	Rename    []string `toml:"rename"`
	Edit      []string `toml:"edit"`
	Delete    []string `toml:"delete"`
	Mode      []string `toml:"mode"`
	Copy      []string `toml:"copy"`
	Back      []string `toml:"back"`
	Quit      []string `toml:"quit"`
	Newline   []string `toml:"newline"`
	NextField []string `toml:"next_field"`
	Cancel    []string `toml:"cancel"`
}

type keymapFile struct {
	Keys Keymap `toml:"keys"`
}

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		Up:        []string{"up", "k"},
		Down:      []string{"down", "j"},
		Select:    []string{"enter"},
		New:       []string{"n"},
		Rename:    []string{"r"},
		Edit:      []string{"e"},
		Delete:    []string{"d"},
		Mode:      []string{"m"},
		Copy:      []string{"y"},
		Back:      []string{"esc", "backspace"},
		Quit:      []string{"q", "ctrl+c"},
		Newline:   []string{"alt+enter", "ctrl+j"},
		NextField: []string{"tab"},
		Cancel:    []string{"esc"},
	}
}

// LoadKeymap reads overrides from the [keys] table of a TOML file. Actions
// absent from the file keep their default keys. An empty path or a missing
// file yields the defaults.
func LoadKeymap(path string) (Keymap, error) {
	km := DefaultKeymap()
	if path == "" {
		return km, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return km, nil
		}
		return km, fmt.Errorf("read keymap: %w", err)
	}

	var f keymapFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return km, fmt.Errorf("parse keymap %s: %w", path, err)
	}
	km.merge(f.Keys)
	return km, nil
}

func (k *Keymap) merge(o Keymap) {
	for _, p := range []struct{ dst, src *[]string }{
		{&k.Up, &o.Up}, {&k.Down, &o.Down}, {&k.Select, &o.Select},
		{&k.New, &o.New}, {&k.Rename, &o.Rename}, {&k.Edit, &o.Edit},
		{&k.Delete, &o.Delete}, {&k.Mode, &o.Mode}, {&k.Copy, &o.Copy},
		{&k.Back, &o.Back}, {&k.Quit, &o.Quit}, {&k.Newline, &o.Newline},
		{&k.NextField, &o.NextField}, {&k.Cancel, &o.Cancel},
	} {
		if len(*p.src) > 0 {
			*p.dst = append([]string(nil), *p.src...)
		}
	}
}
