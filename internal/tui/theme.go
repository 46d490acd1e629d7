package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the browser.
type Theme struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Status    lipgloss.Style
	Empty     lipgloss.Style
	Header    lipgloss.Style
	Selected  lipgloss.Style
	Primary   lipgloss.Color
	Border    lipgloss.Color
	Muted     lipgloss.Color
	Warning   lipgloss.Color
	Highlight lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	Primary:   lipgloss.Color("#3D8BFD"),
	Border:    lipgloss.Color("#404040"),
	Muted:     lipgloss.Color("#737373"),
	Warning:   lipgloss.Color("#FFE66D"),
	Highlight: lipgloss.Color("#1E3A5F"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3D8BFD")),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")).
		MarginTop(1),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFE66D")).
		Padding(1, 2),
	Header: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3D8BFD")).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		BorderBottom(true).
		Padding(0, 1),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#1E3A5F")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),
}
