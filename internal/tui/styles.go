package tui

import "github.com/charmbracelet/lipgloss"

// chat app palette
var (
	colorAccent = lipgloss.Color("35")  // green
	colorDate   = lipgloss.Color("75")  // light blue
	colorMuted  = lipgloss.Color("244") // gray
	colorCursor = lipgloss.Color("220") // amber
	colorFrame  = lipgloss.Color("237")
)

var (
	styleInputPrompt = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleInput       = lipgloss.NewStyle().Foreground(colorAccent)

	styleListSelected = lipgloss.NewStyle().Foreground(colorCursor).Bold(true)
	styleSender       = lipgloss.NewStyle().Foreground(colorAccent)
	styleDate         = lipgloss.NewStyle().Foreground(colorDate)

	stylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorFrame)
	styleActiveBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorAccent)

	styleStatusBar = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
	stylePerson    = lipgloss.NewStyle().Foreground(colorCursor).Bold(true)
)
