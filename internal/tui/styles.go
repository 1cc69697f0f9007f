package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#2196F3")
	success = lipgloss.Color("#28A745")
	danger  = lipgloss.Color("#DC3545")
	muted   = lipgloss.Color("#6C757D")
	light   = lipgloss.Color("#E6F0FF")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(primary).
			Padding(0, 2).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(primary).
			Width(8)

	rowStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedRowStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Foreground(primary).
				Background(light).
				Bold(true)

	statusOKStyle = lipgloss.NewStyle().
			Foreground(success)

	statusErrStyle = lipgloss.NewStyle().
			Foreground(danger).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(muted)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1)
)
