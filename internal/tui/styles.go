package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the list view.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style
	Notice   lipgloss.Style
}

// DefaultStyles returns the standard color scheme.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		Subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
		Header:   lipgloss.NewStyle().Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true),
		Notice:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}
