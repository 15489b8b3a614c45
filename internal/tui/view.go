package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/grove/internal/views"
	"github.com/aretw0/grove/pkg/prefs"
)

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	switch {
	case m.confirm.active:
		b.WriteString(m.confirm.view())
	case m.form != nil:
		b.WriteString(m.form.view(m.width, m.keys))
	default:
		b.WriteString(m.list())
		if m.mode != inputNone {
			b.WriteString("\n" + m.input.View())
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m *Model) header() string {
	crumbs := []string{"Categories"}
	if m.topics != nil {
		crumbs = append(crumbs, m.topics.Heading())
	}
	if m.notes != nil {
		crumbs = append(crumbs, m.notes.Heading())
	}
	title := titleStyle.Render(crumbs[len(crumbs)-1])
	if len(crumbs) == 1 {
		return title
	}
	return crumbStyle.Render(strings.Join(crumbs[:len(crumbs)-1], " / ")+" / ") + title
}

func (m *Model) list() string {
	var names []string
	switch m.level() {
	case levelNotes:
		for _, r := range m.notes.Rows() {
			names = append(names, r.Data.Title)
		}
	case levelTopics:
		for _, r := range m.topics.Rows() {
			names = append(names, r.Data.Name)
		}
	default:
		for _, r := range m.cats.Rows() {
			name := r.Data.Name
			if draft, ok := m.cats.Renaming(r.ID); ok {
				name = draft + " (renaming)"
			}
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return helpStyle.Render("nothing here yet")
	}

	cur := m.cursor[m.level()]
	rows := make([]string, 0, len(names))
	for i, name := range names {
		line := truncate(name, m.width-4)
		if i == cur {
			rows = append(rows, selectedStyle.Render("▸ "+line))
		} else {
			rows = append(rows, rowStyle.Render("  "+line))
		}
	}
	out := strings.Join(rows, "\n")

	if m.level() == levelNotes {
		if detail := m.noteDetail(); detail != "" {
			out = lipgloss.JoinVertical(lipgloss.Left, out, "", panelStyle.Render(detail))
		}
	}
	return out
}

func (m *Model) noteDetail() string {
	row, ok := m.notes.Row(m.selectedID())
	if !ok {
		return ""
	}
	body := row.Data.Content
	if m.notes.Mode() == prefs.ModeViewer {
		body = renderMarkdown(body, m.width-2)
	}
	if row.Data.ImageURL != "" {
		body += "\n" + helpStyle.Render("image: "+truncate(row.Data.ImageURL, m.width-9))
	}
	return body
}

func (m *Model) footer() string {
	var status string
	if m.status != "" {
		if m.isError {
			status = errorStyle.Render(m.status) + "\n"
		} else {
			status = infoStyle.Render(m.status) + "\n"
		}
	}
	if m.confirm.active || m.form != nil || m.mode != inputNone {
		return status
	}

	k := m.keys
	var bindings []string
	switch m.level() {
	case levelNotes:
		for _, a := range m.notes.Controls() {
			switch a {
			case views.ActionAdd:
				bindings = append(bindings, helpLine(k.New))
			case views.ActionEdit:
				bindings = append(bindings, helpLine(k.Edit))
			case views.ActionDelete:
				bindings = append(bindings, helpLine(k.Delete))
			case views.ActionCopy:
				bindings = append(bindings, helpLine(k.Copy))
			case views.ActionMode:
				bindings = append(bindings, helpLine(k.Mode)+" ["+string(m.notes.Mode())+"]")
			case views.ActionBack:
				bindings = append(bindings, helpLine(k.Back))
			}
		}
	case levelTopics:
		bindings = append(bindings, helpLine(k.Select, k.New, k.Delete, k.Back))
	default:
		bindings = append(bindings, helpLine(k.Select, k.New, k.Rename, k.Delete))
	}
	bindings = append(bindings, helpLine(k.Quit))
	return status + helpStyle.Render(strings.Join(bindings, "  "))
}
