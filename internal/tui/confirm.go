package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type confirmChoice int

const (
	confirmNone confirmChoice = iota
	confirmYes
	confirmNo
)

// confirmDialog is a blocking yes/no prompt. The selection starts on Cancel.
type confirmDialog struct {
	active   bool
	message  string
	selected int // 0 confirm, 1 cancel
	onYes    func() tea.Cmd
}

func (c *confirmDialog) open(message string, onYes func() tea.Cmd) {
	c.active = true
	c.message = strings.TrimSpace(message)
	c.selected = 1
	c.onYes = onYes
}

func (c *confirmDialog) close() {
	*c = confirmDialog{}
}

func (c *confirmDialog) handleKey(msg tea.KeyMsg) confirmChoice {
	switch msg.String() {
	case "esc", "n":
		return confirmNo
	case "y":
		return confirmYes
	case "left", "h":
		c.selected = 0
	case "right", "l":
		c.selected = 1
	case "tab":
		c.selected = 1 - c.selected
	case "enter":
		if c.selected == 0 {
			return confirmYes
		}
		return confirmNo
	}
	return confirmNone
}

func (c *confirmDialog) view() string {
	yes, no := buttonStyle.Render("Delete"), buttonStyle.Render("Cancel")
	if c.selected == 0 {
		yes = activeStyle.Render("Delete")
	} else {
		no = activeStyle.Render("Cancel")
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		c.message,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, yes, "  ", no),
		helpStyle.Render("y confirm  n cancel"),
	)
	return dialogStyle.Render(body)
}
