package tui

import "github.com/charmbracelet/lipgloss"

// Monochrome grayscale styles with strong text hierarchy
type styles struct {
	title      lipgloss.Style
	subtitle   lipgloss.Style
	label      lipgloss.Style
	focused    lipgloss.Style
	selected   lipgloss.Style
	unselected lipgloss.Style
	panel      lipgloss.Style
	status     lipgloss.Style
	statusErr  lipgloss.Style
	busy       lipgloss.Style
	counter    lipgloss.Style
	backdrop   lipgloss.Style
	hint       lipgloss.Style
	helpKey    lipgloss.Style
	helpDesc   lipgloss.Style
	helpSep    lipgloss.Style
}

func newStyles() styles {
	white := lipgloss.Color("#FFFFFF")
	black := lipgloss.Color("#000000")
	gray300 := lipgloss.Color("#E0E0E0")
	gray500 := lipgloss.Color("#9E9E9E")
	gray600 := lipgloss.Color("#757575")
	gray700 := lipgloss.Color("#616161")
	gray800 := lipgloss.Color("#424242")

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(white),
		subtitle: lipgloss.NewStyle().
			Foreground(gray300).
			Bold(true),
		label: lipgloss.NewStyle().
			Foreground(gray500),
		focused: lipgloss.NewStyle().
			Foreground(black).
			Background(white).
			Bold(true),
		selected: lipgloss.NewStyle().
			Foreground(white).
			Bold(true),
		unselected: lipgloss.NewStyle().
			Foreground(gray600),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(gray500).
			Padding(1, 2),
		status: lipgloss.NewStyle().
			Foreground(white),
		statusErr: lipgloss.NewStyle().
			Foreground(gray300).
			Italic(true),
		busy: lipgloss.NewStyle().
			Foreground(gray500).
			Italic(true),
		counter: lipgloss.NewStyle().
			Foreground(gray700),
		backdrop: lipgloss.NewStyle().
			Foreground(gray500),
		hint: lipgloss.NewStyle().
			Foreground(gray700),
		helpKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A3A3A3")).
			Bold(true),
		helpDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#525252")),
		helpSep: lipgloss.NewStyle().
			Foreground(gray800),
	}
}
