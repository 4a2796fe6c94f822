package console

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title   lipgloss.Style
	Detail  lipgloss.Style
	Success lipgloss.Style
	Warn    lipgloss.Style
	Error   lipgloss.Style
}

// NewTheme binds styles to a renderer so color detection follows the output writer.
func NewTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Title:   r.NewStyle().Bold(true),
		Detail:  r.NewStyle().Faint(true),
		Success: r.NewStyle().Foreground(lipgloss.Color("2")),
		Warn:    r.NewStyle().Foreground(lipgloss.Color("3")),
		Error:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	}
}
