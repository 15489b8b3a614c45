package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/grove/internal/views"
)

const (
	fieldTitle = iota
	fieldContent
	fieldImage
	fieldCount
)

type formResult int

const (
	formPending formResult = iota
	formSubmit
	formCancel
)

// noteForm edits a new note or a NoteEditor draft. Plain enter submits;
// the newline binding splices a line break into the content.
type noteForm struct {
	editing  string // note id, empty for a new note
	title    textinput.Model
	content  textarea.Model
	image    textinput.Model
	imageURL string
	focus    int
}

func newNoteForm(d views.NoteDraft, editing, imageURL string, keys keyMap) *noteForm {
	title := textinput.New()
	title.Placeholder = "Title"
	title.Prompt = ""
	title.CharLimit = 200
	title.SetValue(d.Title)
	title.Focus()

	content := textarea.New()
	content.Placeholder = "Content"
	content.Prompt = ""
	content.ShowLineNumbers = false
	content.CharLimit = 0
	content.MaxHeight = 0
	content.SetHeight(6)
	// textarea binds enter to a newline by default; enter submits here.
	content.KeyMap.InsertNewline = keys.Newline
	content.SetValue(d.Content)

	image := textinput.New()
	image.Placeholder = "path to an image (optional)"
	image.Prompt = ""

	return &noteForm{
		editing:  editing,
		title:    title,
		content:  content,
		image:    image,
		imageURL: imageURL,
	}
}

func (f *noteForm) setFocus(i int) {
	f.focus = i % fieldCount
	f.title.Blur()
	f.content.Blur()
	f.image.Blur()
	switch f.focus {
	case fieldTitle:
		f.title.Focus()
	case fieldContent:
		f.content.Focus()
	case fieldImage:
		f.image.Focus()
	}
}

func (f *noteForm) update(msg tea.KeyMsg, keys keyMap) (formResult, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		return formCancel, nil
	case key.Matches(msg, keys.NextField):
		f.setFocus(f.focus + 1)
		return formPending, nil
	case f.focus == fieldContent && key.Matches(msg, keys.Newline):
		var cmd tea.Cmd
		f.content, cmd = f.content.Update(msg)
		return formPending, cmd
	case msg.Type == tea.KeyEnter:
		return formSubmit, nil
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldImage:
		f.image, cmd = f.image.Update(msg)
	case fieldContent:
		f.content, cmd = f.content.Update(msg)
	}
	return formPending, cmd
}

// draft reads the form, loading the image file when a path was given.
func (f *noteForm) draft() (views.NoteDraft, error) {
	d := views.NoteDraft{Title: f.title.Value(), Content: f.content.Value()}
	path := strings.TrimSpace(f.image.Value())
	if path == "" {
		return d, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("read image: %w", err)
	}
	d.Image = &views.Attachment{Filename: filepath.Base(path), Data: data}
	return d, nil
}

func (f *noteForm) view(width int, keys keyMap) string {
	label := func(i int, s string) string {
		if f.focus == i {
			return focusStyle.Render(s)
		}
		return labelStyle.Render(s)
	}
	f.content.SetWidth(max(20, width-10))

	heading := "New note"
	if f.editing != "" {
		heading = "Edit note"
	}
	rows := []string{
		titleStyle.Render(heading),
		lipgloss.JoinHorizontal(lipgloss.Top, label(fieldTitle, "title"), f.title.View()),
		lipgloss.JoinHorizontal(lipgloss.Top, label(fieldContent, "content"), f.content.View()),
		lipgloss.JoinHorizontal(lipgloss.Top, label(fieldImage, "image"), f.image.View()),
	}
	if f.imageURL != "" {
		rows = append(rows, helpStyle.Render("current image: "+f.imageURL))
	}
	rows = append(rows, "", helpStyle.Render(helpLine(keys.NextField, keys.Newline, keys.Cancel)+"  enter save"))
	return strings.Join(rows, "\n")
}
