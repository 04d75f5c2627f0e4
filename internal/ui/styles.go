package ui

import "github.com/charmbracelet/lipgloss"

// Color palette - warm amber accent on neutral grays, matching the
// portfolio site.
const (
	ColorAmber    = "214" // Primary accent
	ColorAmberDim = "172" // Dimmed accent for secondary highlights
	ColorWhite    = "255" // Titles, important text
	ColorGray     = "245" // Secondary text, labels
	ColorDarkGray = "238" // Borders, separators
	ColorRed      = "196" // Errors
	ColorYellow   = "220" // Warnings
)

// Styles holds the styles used by result rendering and the browser.
type Styles struct {
	Title    lipgloss.Style
	Score    lipgloss.Style
	Label    lipgloss.Style
	Dim      lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Prompt   lipgloss.Style
	Selected lipgloss.Style
	Panel    lipgloss.Style
	Border   lipgloss.Style
}

// DefaultStyles returns the amber-accent styles for terminal output.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorWhite)),
		Score:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAmber)),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Prompt:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAmber)),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAmber)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorDarkGray)).
			Padding(0, 1),
		Border: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
	}
}

// NoColorStyles returns unstyled components for plain output.
func NoColorStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle(),
		Score:    lipgloss.NewStyle(),
		Label:    lipgloss.NewStyle(),
		Dim:      lipgloss.NewStyle(),
		Error:    lipgloss.NewStyle(),
		Warning:  lipgloss.NewStyle(),
		Prompt:   lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle(),
		Panel:    lipgloss.NewStyle(),
		Border:   lipgloss.NewStyle(),
	}
}

// GetStyles returns the appropriate styles based on color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}
