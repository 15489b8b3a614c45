package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/grove/internal/config"
	"github.com/aretw0/grove/internal/views"
	"github.com/aretw0/grove/pkg/adapters/fs"
	"github.com/aretw0/grove/pkg/core"
	"github.com/aretw0/grove/pkg/prefs"
	"github.com/aretw0/grove/pkg/syncclient"
)

func setupModel(t *testing.T) *Model {
	t.Helper()
	ctx := context.Background()
	repo, err := fs.NewRepository(fs.Config{Path: t.TempDir(), Debounce: 5 * time.Millisecond})
	require.NoError(t, err)
	require.NoError(t, repo.Initialize(ctx))
	client := syncclient.New(core.NewService(repo), syncclient.Config{})

	cats, err := views.OpenCategories(ctx, client, views.Config{Prefs: prefs.NewMemStore()})
	require.NoError(t, err)
	m := newModel(ctx, cats, newKeyMap(config.DefaultKeymap()), nil)
	t.Cleanup(func() {
		m.closeAll()
		client.Close()
	})
	return m
}

func press(m *Model, keys ...tea.KeyMsg) {
	for _, k := range keys {
		m.Update(k)
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		press(m, runes(string(r)))
	}
}

var (
	enter    = tea.KeyMsg{Type: tea.KeyEnter}
	altEnter = tea.KeyMsg{Type: tea.KeyEnter, Alt: true}
	tab      = tea.KeyMsg{Type: tea.KeyTab}
	esc      = tea.KeyMsg{Type: tea.KeyEsc}
)

// pump applies snapshots of the current view until cond holds.
func pump(t *testing.T, m *Model, cond func() bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for !cond() {
		var err error
		switch m.level() {
		case levelNotes:
			err = m.notes.Next(ctx)
		case levelTopics:
			err = m.topics.Next(ctx)
		default:
			err = m.cats.Next(ctx)
		}
		require.NoError(t, err)
		m.clampCursor()
	}
}

func TestKeys_CreateHierarchyWithMultilineNote(t *testing.T) {
	m := setupModel(t)

	press(m, runes("n"))
	require.Equal(t, inputNew, m.mode)
	typeText(m, "Work")
	press(m, enter)
	assert.Equal(t, inputNone, m.mode)
	pump(t, m, func() bool { return m.cats.Len() == 1 })

	press(m, enter)
	require.Equal(t, levelTopics, m.level())
	assert.Equal(t, "Work", m.topics.Heading())

	press(m, runes("n"))
	typeText(m, "Invoices")
	press(m, enter)
	pump(t, m, func() bool { return m.topics.Len() == 1 })

	press(m, enter)
	require.Equal(t, levelNotes, m.level())

	press(m, runes("n"))
	require.NotNil(t, m.form)
	typeText(m, "Q1")
	press(m, tab)
	typeText(m, "line1")
	press(m, altEnter)
	typeText(m, "line2")
	press(m, enter)
	assert.Nil(t, m.form)

	pump(t, m, func() bool { return m.notes.Len() == 1 })
	note := m.notes.Rows()[0].Data
	assert.Equal(t, "Q1", note.Title)
	assert.Equal(t, "line1\nline2", note.Content)
	assert.Contains(t, m.View(), "Q1")

	press(m, esc)
	assert.Equal(t, levelTopics, m.level())
	press(m, esc)
	assert.Equal(t, levelCategories, m.level())
}

// Every default newline key must be something the terminal can deliver,
// otherwise pressing it falls through to enter and submits the note.
func TestKeys_DefaultNewlineKeysAreDeliverable(t *testing.T) {
	deliverable := map[string]bool{}
	for kt := tea.KeyType(-300); kt <= 300; kt++ {
		for _, alt := range []bool{false, true} {
			deliverable[tea.KeyMsg{Type: kt, Alt: alt}.String()] = true
		}
	}
	for _, k := range config.DefaultKeymap().Newline {
		assert.True(t, deliverable[k], "newline key %q is never delivered", k)
	}
	assert.Equal(t, "alt+enter newline", helpLine(newKeyMap(config.DefaultKeymap()).Newline))
}

func TestForm_NewlineKeysStayInContent(t *testing.T) {
	keys := newKeyMap(config.DefaultKeymap())
	f := newNoteForm(views.NoteDraft{Title: "Q1", Content: "line1"}, "", "", keys)
	f.setFocus(fieldContent)

	for _, k := range []tea.KeyMsg{altEnter, {Type: tea.KeyCtrlJ}} {
		res, _ := f.update(k, keys)
		assert.Equal(t, formPending, res, "key %q", k.String())
	}
	assert.Equal(t, "line1\n\n", f.content.Value())

	res, _ := f.update(runes("x"), keys)
	assert.Equal(t, formPending, res)

	res, _ = f.update(enter, keys)
	assert.Equal(t, formSubmit, res)
	d, err := f.draft()
	require.NoError(t, err)
	assert.Equal(t, "Q1", d.Title)
	assert.Equal(t, "line1\n\nx", d.Content)
}

func TestForm_ContentEditingKeys(t *testing.T) {
	keys := newKeyMap(config.DefaultKeymap())
	f := newNoteForm(views.NoteDraft{Content: "line1\nline2"}, "", "", keys)
	f.setFocus(fieldContent)

	f.update(tea.KeyMsg{Type: tea.KeyUp}, keys)
	assert.Equal(t, 0, f.content.Line())

	f.update(tea.KeyMsg{Type: tea.KeyEnd}, keys)
	f.update(tea.KeyMsg{Type: tea.KeyCtrlW}, keys)
	assert.Equal(t, "\nline2", f.content.Value())
}

func TestKeys_BlankSubmitKeepsInputOpen(t *testing.T) {
	m := setupModel(t)

	press(m, runes("n"))
	typeText(m, "   ")
	press(m, enter)
	assert.Equal(t, inputNew, m.mode)
	assert.Empty(t, m.status, "validation errors stay silent")

	press(m, esc)
	assert.Equal(t, inputNone, m.mode)
}

func TestKeys_RenameAndConfirmDelete(t *testing.T) {
	m := setupModel(t)

	press(m, runes("n"))
	typeText(m, "Alpha")
	press(m, enter)
	pump(t, m, func() bool { return m.cats.Len() == 1 })

	press(m, runes("r"))
	require.Equal(t, inputRename, m.mode)
	assert.Equal(t, "Alpha", m.input.Value())
	m.input.SetValue("Beta")
	press(m, enter)
	assert.Equal(t, "Beta", m.cats.Rows()[0].Data.Name)

	press(m, runes("d"))
	require.True(t, m.confirm.active)
	assert.Equal(t, `Delete "Beta" and all its topics?`, m.confirm.message)
	press(m, runes("n"))
	assert.False(t, m.confirm.active)

	press(m, runes("d"), enter) // selection starts on Cancel
	assert.False(t, m.confirm.active)
	press(m, runes("d"), tea.KeyMsg{Type: tea.KeyLeft}, enter)
	pump(t, m, func() bool { return m.cats.Len() == 0 })
}

func TestKeys_ViewerModeHidesMutations(t *testing.T) {
	m := setupModel(t)

	press(m, runes("n"))
	typeText(m, "Work")
	press(m, enter)
	pump(t, m, func() bool { return m.cats.Len() == 1 })
	press(m, enter, runes("n"))
	typeText(m, "T")
	press(m, enter)
	pump(t, m, func() bool { return m.topics.Len() == 1 })
	press(m, enter)

	press(m, runes("m"))
	assert.Equal(t, prefs.ModeViewer, m.notes.Mode())
	assert.NotContains(t, m.View(), "new")

	press(m, runes("n"))
	assert.Nil(t, m.form)
	press(m, runes("d"))
	assert.False(t, m.confirm.active)

	press(m, runes("m"))
	press(m, runes("n"))
	assert.NotNil(t, m.form)
}

func TestKeys_CopyNote(t *testing.T) {
	m := setupModel(t)
	var copied string
	m.copy = func(s string) error {
		copied = s
		return nil
	}

	press(m, runes("n"))
	typeText(m, "Work")
	press(m, enter)
	pump(t, m, func() bool { return m.cats.Len() == 1 })
	press(m, enter, runes("n"))
	typeText(m, "T")
	press(m, enter)
	pump(t, m, func() bool { return m.topics.Len() == 1 })
	press(m, enter, runes("n"))
	typeText(m, "title")
	press(m, tab)
	typeText(m, "body")
	press(m, enter)
	pump(t, m, func() bool { return m.notes.Len() == 1 })

	press(m, runes("y"))
	assert.Equal(t, "body", copied)

	m.copy = func(string) error { return errors.New("no display") }
	press(m, runes("y"))
	assert.True(t, m.isError)
	assert.Contains(t, m.status, "no display")
}

func TestConfirmDialogKeys(t *testing.T) {
	var c confirmDialog
	c.open("sure?", nil)
	assert.Equal(t, 1, c.selected)

	assert.Equal(t, confirmNone, c.handleKey(tab))
	assert.Equal(t, 0, c.selected)
	assert.Equal(t, confirmNone, c.handleKey(tea.KeyMsg{Type: tea.KeyRight}))
	assert.Equal(t, confirmNo, c.handleKey(enter))
	assert.Equal(t, confirmYes, c.handleKey(runes("y")))
	assert.Equal(t, confirmNo, c.handleKey(esc))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "a b", truncate("a\nb", 10))
	assert.Equal(t, "日本…", truncate("日本語テキスト", 5))
}
