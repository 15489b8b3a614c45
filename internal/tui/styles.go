package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("105"))
	crumbStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("218")).Bold(true)
	rowStyle      = lipgloss.NewStyle()
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(8)
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("218")).Width(8)
	dialogStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("203")).
			Padding(0, 1)
	buttonStyle = lipgloss.NewStyle().Padding(0, 1)
	activeStyle = buttonStyle.Reverse(true)
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(lipgloss.Color("238"))
)
