package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme and styling
type Theme struct {
	Name string

	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color

	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Selection     lipgloss.Color
	Cursor        lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Grid colors
	Header       lipgloss.Color
	HeaderSorted lipgloss.Color
	RowEven      lipgloss.Color
	RowOdd       lipgloss.Color
	RowSelected  lipgloss.Color
	PinnedEdge   lipgloss.Color
	FilterBadge  lipgloss.Color
}

// Get returns the theme with the given name, falling back to the default
func Get(name string) Theme {
	switch name {
	case "catppuccin-mocha", "catppuccin":
		return CatppuccinMochaTheme()
	default:
		return DefaultTheme()
	}
}

// Names lists the built-in themes
func Names() []string {
	return []string{"default", "catppuccin-mocha"}
}
