package tui

import "github.com/charmbracelet/lipgloss"

// Semantic colors for the status dashboard.
var (
	colorAccent  = lipgloss.Color("#8BC34A")
	colorMuted   = lipgloss.Color("#767676")
	colorSuccess = lipgloss.Color("#8BC34A")
	colorError   = lipgloss.Color("#e53935")
	colorWarning = lipgloss.Color("#FFC107")
	colorInfo    = lipgloss.Color("#2196F3")
)

// Styles holds the styled components the dashboard reuses across panels.
type Styles struct {
	Header  lipgloss.Style
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Panel   lipgloss.Style
}

// DefaultStyles returns the dashboard's fixed style set.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(colorAccent).
			Foreground(lipgloss.Color("#101F38")).
			Padding(0, 2).
			Bold(true),
		Title: lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		Muted: lipgloss.NewStyle().Foreground(colorMuted),
		Bold:  lipgloss.NewStyle().Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(colorSuccess).Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(colorError).Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(colorWarning).Bold(true),
		Info: lipgloss.NewStyle().Foreground(colorInfo),
		Panel: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted),
	}
}
