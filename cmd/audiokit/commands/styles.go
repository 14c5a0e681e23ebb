package commands

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6e7681"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))

	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff9f"))
	failedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5f5f"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5c07b"))
)
