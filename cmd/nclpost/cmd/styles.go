package cmd

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorAccent    = lipgloss.Color("#F59E0B")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	okStyle = lipgloss.NewStyle().
		Foreground(colorSecondary)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	kindStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Width(12)

	lineNoStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(6).
			Align(lipgloss.Right)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

// statusIcon returns the colored [+] / [-] marker used in listings
func statusIcon(ok bool) string {
	if ok {
		return okStyle.Render("[+]")
	}
	return errorStyle.Render("[-]")
}
