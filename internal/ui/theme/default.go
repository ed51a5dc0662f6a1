package theme

import "github.com/charmbracelet/lipgloss"

// DefaultTheme returns the default dark theme
func DefaultTheme() Theme {
	return Theme{
		Name: "default",

		Background: lipgloss.Color("235"),
		Foreground: lipgloss.Color("252"),
		Muted:      lipgloss.Color("245"),

		Border:        lipgloss.Color("240"),
		BorderFocused: lipgloss.Color("62"),
		Selection:     lipgloss.Color("237"),
		Cursor:        lipgloss.Color("25"),

		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("196"),
		Info:    lipgloss.Color("75"),

		Header:       lipgloss.Color("105"),
		HeaderSorted: lipgloss.Color("220"),
		RowEven:      lipgloss.Color("235"),
		RowOdd:       lipgloss.Color("236"),
		RowSelected:  lipgloss.Color("22"),
		PinnedEdge:   lipgloss.Color("62"),
		FilterBadge:  lipgloss.Color("75"),
	}
}
