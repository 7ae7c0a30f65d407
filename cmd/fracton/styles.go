package main

import "github.com/charmbracelet/lipgloss"

const (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHighlight)
)

// priorityStyle colours FIRST/HIGH green, LOW/LAST muted.
func priorityStyle(p int) lipgloss.Style {
	switch {
	case p > 0:
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	case p < 0:
		return SubtitleStyle
	default:
		return lipgloss.NewStyle()
	}
}
