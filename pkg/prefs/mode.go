package prefs

import "fmt"

// Mode gates mutation controls in the note list. It is presentation only.
type Mode string

const (
	ModeViewer Mode = "viewer"
	ModeEditor Mode = "editor"
)

// KeyMode is the prefs key holding the mode.
const KeyMode = "mode"

// ParseMode accepts "viewer" or "editor".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeViewer, ModeEditor:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q (want viewer or editor)", s)
}

// Toggle flips between viewer and editor.
func (m Mode) Toggle() Mode {
	if m == ModeViewer {
		return ModeEditor
	}
	return ModeViewer
}

// LoadMode reads the stored mode. Absent or unrecognised values yield editor.
func LoadMode(s Store) (Mode, error) {
	raw, ok, err := s.Get(KeyMode)
	if err != nil {
		return ModeEditor, err
	}
	if !ok {
		return ModeEditor, nil
	}
	m, err := ParseMode(raw)
	if err != nil {
		return ModeEditor, nil
	}
	return m, nil
}

// SaveMode persists m.
func SaveMode(s Store, m Mode) error {
	if _, err := ParseMode(string(m)); err != nil {
		return err
	}
	return s.Set(KeyMode, string(m))
}
