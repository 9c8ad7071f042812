package tui

import "github.com/charmbracelet/lipgloss"

var (
	gold   = lipgloss.Color("#e8b100")
	text   = lipgloss.Color("#f2f2f2")
	muted  = lipgloss.Color("#8a8f99")
	border = lipgloss.Color("#3a404c")
	green  = lipgloss.Color("#2fa84f")
	amber  = lipgloss.Color("#f0a030")
	red    = lipgloss.Color("#e05555")

	logoStyle = lipgloss.NewStyle().Foreground(gold).Bold(true)

	titleStyle = lipgloss.NewStyle().Foreground(text).Bold(true)

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1).
			MarginBottom(1)

	paneActiveStyle = paneStyle.BorderForeground(gold)

	mutedStyle = lipgloss.NewStyle().Foreground(muted)

	statusStyles = map[string]lipgloss.Style{
		"submitting": lipgloss.NewStyle().Foreground(gold),
		"succeeded":  lipgloss.NewStyle().Foreground(green),
		"failed":     lipgloss.NewStyle().Foreground(red),
	}

	noticeStyles = map[string]lipgloss.Style{
		"info":    lipgloss.NewStyle().Foreground(green).Bold(true),
		"warning": lipgloss.NewStyle().Foreground(amber).Bold(true),
		"error":   lipgloss.NewStyle().Foreground(red).Bold(true),
	}
)
