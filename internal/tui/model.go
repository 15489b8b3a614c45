// Package tui is the terminal frontend: three drill-down lists and a note
// form on top of the views package.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/aretw0/grove/internal/views"
	"github.com/aretw0/grove/pkg/core"
	"github.com/aretw0/grove/pkg/syncclient"
)

type level int

const (
	levelCategories level = iota
	levelTopics
	levelNotes
)

type inputMode int

const (
	inputNone inputMode = iota
	inputNew
	inputRename
)

// snapshotMsg carries one snapshot from a view's subscription to the loop.
type snapshotMsg struct {
	path   core.Path
	ch     <-chan syncclient.Snapshot
	snap   syncclient.Snapshot
	closed bool
}

// writeTimeout bounds each write issued from the loop.
const writeTimeout = 10 * time.Second

// Model is the bubbletea model. Views are only touched from Update.
type Model struct {
	ctx    context.Context
	keys   keyMap
	logger *slog.Logger

	cats   *views.CategoryView
	topics *views.TopicView
	notes  *views.NoteView
	cursor [3]int

	input    textinput.Model
	mode     inputMode
	renameID string

	form   *noteForm
	editor *views.NoteEditor

	confirm confirmDialog
	status  string
	isError bool

	width, height int
	copy          func(string) error
}

func newModel(ctx context.Context, cats *views.CategoryView, keys keyMap, logger *slog.Logger) *Model {
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 200
	if logger == nil {
		logger = slog.Default()
	}
	return &Model{
		ctx:    ctx,
		keys:   keys,
		logger: logger,
		cats:   cats,
		input:  in,
		copy:   clipboard.WriteAll,
		width:  80,
		height: 24,
	}
}

func waitSnapshot(path core.Path, ch <-chan syncclient.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		return snapshotMsg{path: path, ch: ch, snap: snap, closed: !ok}
	}
}

func (m *Model) Init() tea.Cmd {
	return waitSnapshot(m.cats.Path(), m.cats.Updates())
}

func (m *Model) level() level {
	switch {
	case m.notes != nil:
		return levelNotes
	case m.topics != nil:
		return levelTopics
	}
	return levelCategories
}

func (m *Model) rowCount() int {
	switch m.level() {
	case levelNotes:
		return m.notes.Len()
	case levelTopics:
		return m.topics.Len()
	}
	return m.cats.Len()
}

// selectedID returns the id under the cursor of the current level.
func (m *Model) selectedID() string {
	i := m.cursor[m.level()]
	switch m.level() {
	case levelNotes:
		if rows := m.notes.Rows(); i < len(rows) {
			return rows[i].ID
		}
	case levelTopics:
		if rows := m.topics.Rows(); i < len(rows) {
			return rows[i].ID
		}
	default:
		if rows := m.cats.Rows(); i < len(rows) {
			return rows[i].ID
		}
	}
	return ""
}

func (m *Model) clampCursor() {
	lv := m.level()
	n := m.rowCount()
	if m.cursor[lv] >= n {
		m.cursor[lv] = max(0, n-1)
	}
}

func (m *Model) setStatus(s string) {
	m.status, m.isError = s, false
}

// report surfaces write and upload failures. Validation failures are dropped.
func (m *Model) report(err error) {
	if err == nil || views.IsValidation(err) {
		return
	}
	m.logger.Warn("operation failed", "error", err)
	m.status, m.isError = err.Error(), true
}

func (m *Model) writeCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(m.ctx, writeTimeout)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case snapshotMsg:
		return m, m.applySnapshot(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) applySnapshot(msg snapshotMsg) tea.Cmd {
	type target struct {
		path    core.Path
		apply   func(syncclient.Snapshot) bool
		updates func() <-chan syncclient.Snapshot
	}
	targets := []target{{m.cats.Path(), m.cats.Apply, m.cats.Updates}}
	if m.topics != nil {
		targets = append(targets, target{m.topics.Path(), m.topics.Apply, m.topics.Updates})
	}
	if m.notes != nil {
		targets = append(targets, target{m.notes.Path(), m.notes.Apply, m.notes.Updates})
	}

	for _, t := range targets {
		// A reopened path has a new channel; stale waits are dropped.
		if t.path != msg.path || t.updates() != msg.ch {
			continue
		}
		if msg.closed {
			return nil
		}
		t.apply(msg.snap)
		m.clampCursor()
		return waitSnapshot(t.path, t.updates())
	}
	// Snapshot of a view that was closed meanwhile.
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.confirm.active {
		return m, m.handleConfirm(msg)
	}
	if m.form != nil {
		return m, m.handleForm(msg)
	}
	if m.mode != inputNone {
		return m, m.handleInput(msg)
	}
	return m.handleBrowse(msg)
}

func (m *Model) handleConfirm(msg tea.KeyMsg) tea.Cmd {
	switch m.confirm.handleKey(msg) {
	case confirmYes:
		onYes := m.confirm.onYes
		m.confirm.close()
		if onYes != nil {
			return onYes()
		}
	case confirmNo:
		m.confirm.close()
	}
	return nil
}

func (m *Model) handleInput(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeInput()
		return nil
	case msg.Type == tea.KeyEnter:
		m.submitInput()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) openInput(mode inputMode, value, placeholder string) tea.Cmd {
	m.mode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closeInput() {
	if m.mode == inputRename {
		m.cats.CancelRename(m.renameID)
	}
	m.mode = inputNone
	m.renameID = ""
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) submitInput() {
	ctx, cancel := m.writeCtx()
	defer cancel()

	var err error
	switch {
	case m.mode == inputRename:
		m.cats.SetRenameDraft(m.renameID, m.input.Value())
		err = m.cats.SaveRename(ctx, m.renameID)
	case m.level() == levelTopics:
		m.topics.SetDraft(m.input.Value())
		_, err = m.topics.SubmitNew(ctx)
	default:
		m.cats.SetDraft(m.input.Value())
		_, err = m.cats.SubmitNew(ctx)
	}
	if err != nil {
		m.report(err)
		if views.IsValidation(err) {
			return
		}
	}
	m.closeInput()
}

func (m *Model) handleForm(msg tea.KeyMsg) tea.Cmd {
	res, cmd := m.form.update(msg, m.keys)
	switch res {
	case formCancel:
		m.form, m.editor = nil, nil
	case formSubmit:
		m.submitForm()
	}
	return cmd
}

func (m *Model) submitForm() {
	d, err := m.form.draft()
	if err != nil {
		m.report(err)
		return
	}

	ctx, cancel := m.writeCtx()
	defer cancel()
	if m.editor != nil {
		m.editor.SetTitle(d.Title)
		m.editor.SetContent(d.Content)
		m.editor.Attach(d.Image)
		err = m.editor.Save(ctx)
	} else {
		m.notes.SetDraft(d)
		_, err = m.notes.SubmitNew(ctx)
	}
	if err != nil {
		m.report(err)
		return
	}
	m.form, m.editor = nil, nil
	m.setStatus("saved")
}

func (m *Model) handleBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lv := m.level()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor[lv] > 0 {
			m.cursor[lv]--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor[lv] < m.rowCount()-1 {
			m.cursor[lv]++
		}
	case key.Matches(msg, m.keys.Back):
		m.back()
	case key.Matches(msg, m.keys.Select):
		return m, m.open()
	case key.Matches(msg, m.keys.New):
		return m, m.startNew()
	case key.Matches(msg, m.keys.Rename) && lv == levelCategories:
		return m, m.startRename()
	case key.Matches(msg, m.keys.Edit) && lv == levelNotes:
		m.startEdit()
	case key.Matches(msg, m.keys.Delete):
		m.startDelete()
	case key.Matches(msg, m.keys.Mode) && lv == levelNotes:
		if err := m.notes.ToggleMode(); err != nil {
			m.report(err)
		} else {
			m.setStatus(string(m.notes.Mode()) + " mode")
		}
	case key.Matches(msg, m.keys.Copy) && lv == levelNotes:
		m.copyNote()
	}
	return m, nil
}

func (m *Model) open() tea.Cmd {
	id := m.selectedID()
	if id == "" {
		return nil
	}
	switch m.level() {
	case levelCategories:
		v, err := m.cats.Select(m.ctx, id)
		if err != nil {
			m.report(err)
			return nil
		}
		m.topics, m.cursor[levelTopics] = v, 0
		return waitSnapshot(v.Path(), v.Updates())
	case levelTopics:
		v, err := m.topics.Select(m.ctx, id)
		if err != nil {
			m.report(err)
			return nil
		}
		m.notes, m.cursor[levelNotes] = v, 0
		return waitSnapshot(v.Path(), v.Updates())
	}
	return nil
}

// back closes the current view; the parent is still subscribed.
func (m *Model) back() {
	switch m.level() {
	case levelNotes:
		m.notes.Close()
		m.notes = nil
	case levelTopics:
		m.topics.Close()
		m.topics = nil
	}
	m.status = ""
}

func (m *Model) startNew() tea.Cmd {
	switch m.level() {
	case levelNotes:
		if !m.notes.Allowed(views.ActionAdd) {
			return nil
		}
		m.form = newNoteForm(views.NoteDraft{}, "", "", m.keys)
		return textinput.Blink
	case levelTopics:
		return m.openInput(inputNew, "", "New topic name")
	}
	return m.openInput(inputNew, "", "New category name")
}

func (m *Model) startRename() tea.Cmd {
	id := m.selectedID()
	if id == "" {
		return nil
	}
	if err := m.cats.StartRename(id); err != nil {
		m.report(err)
		return nil
	}
	draft, _ := m.cats.Renaming(id)
	m.renameID = id
	return m.openInput(inputRename, draft, "Category name")
}

func (m *Model) startEdit() {
	id := m.selectedID()
	if id == "" || !m.notes.Allowed(views.ActionEdit) {
		return
	}
	ed, err := m.notes.Edit(id)
	if err != nil {
		m.report(err)
		return
	}
	m.editor = ed
	m.form = newNoteForm(ed.Draft(), id, ed.ImageURL(), m.keys)
}

func (m *Model) startDelete() {
	id := m.selectedID()
	if id == "" {
		return
	}
	var (
		prompt string
		del    func(context.Context, string) error
	)
	switch m.level() {
	case levelNotes:
		if !m.notes.Allowed(views.ActionDelete) {
			return
		}
		prompt, del = m.notes.DeletePrompt(id), m.notes.Delete
	case levelTopics:
		prompt, del = m.topics.DeletePrompt(id), m.topics.Delete
	default:
		prompt, del = m.cats.DeletePrompt(id), m.cats.Delete
	}
	m.confirm.open(prompt, func() tea.Cmd {
		ctx, cancel := m.writeCtx()
		defer cancel()
		if err := del(ctx, id); err != nil {
			m.report(err)
		}
		return nil
	})
}

func (m *Model) copyNote() {
	id := m.selectedID()
	row, ok := m.notes.Row(id)
	if !ok {
		return
	}
	if err := m.copy(row.Data.Content); err != nil {
		m.report(fmt.Errorf("copy: %w", err))
		return
	}
	m.setStatus("copied to clipboard")
}

// closeAll releases every subscription, deepest first.
func (m *Model) closeAll() {
	if m.notes != nil {
		m.notes.Close()
		m.notes = nil
	}
	if m.topics != nil {
		m.topics.Close()
		m.topics = nil
	}
	m.cats.Close()
}

func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
