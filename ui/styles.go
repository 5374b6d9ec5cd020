package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#626262"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	warning   = lipgloss.AdaptiveColor{Light: "#F25D94", Dark: "#F55081"}
	caution   = lipgloss.AdaptiveColor{Light: "#C29D2A", Dark: "#E8C447"}

	// Borders
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(subtle).
			Padding(0, 1)

	// Text
	titleStyle = lipgloss.NewStyle().
			Foreground(highlight).
			Bold(true).
			Padding(0, 1)

	moduleStyle = lipgloss.NewStyle().
			Foreground(caution).
			Bold(true)

	passStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(warning).
			Bold(true)

	skipStyle = lipgloss.NewStyle().
			Foreground(caution)

	dimStyle = lipgloss.NewStyle().
			Foreground(subtle)

	noticeStyle = lipgloss.NewStyle().
			Foreground(caution).
			Italic(true)

	hintStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(caution).
			Padding(0, 1)
)
