package tui

import "github.com/charmbracelet/lipgloss"

var (
	correctColor = lipgloss.Color("#2E8B57")
	wrongColor   = lipgloss.Color("#FF4D4F")
	flashText    = lipgloss.Color("#F0F0F0")

	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	promptStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	messageStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle       = lipgloss.NewStyle().Foreground(wrongColor)
	fretNumberStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	inlayStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	stringLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C8C8C8"))
	wireStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A5A5A"))
	noteStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	dimNoteStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	queryStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	foundStyle       = lipgloss.NewStyle().Bold(true).Foreground(correctColor)
	missedStyle      = lipgloss.NewStyle().Foreground(wrongColor)
	buttonStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C8C8C8"))
	noteButtonStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
)
